package main

import "os"

// Three interchangeable composition roots build the same object graph:
// plain construction (the default), dig and wire. DI_MODE picks one at
// startup so they can be compared under identical load.
func main() {
	switch os.Getenv("DI_MODE") {
	case "dig":
		startWithDig()
	case "wire":
		startWithWire()
	default:
		startManual()
	}
}
