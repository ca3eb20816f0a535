package staff

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

func TestPeerScoreOverride(t *testing.T) {
	item := testItem()
	env := newTestEnv(t, item)
	si := item.StudentItem("t.student")
	env.db.SetScore(si, assessment.Score{PointsEarned: 3, PointsPossible: 7})

	req := OverrideRequest{StudentID: "t.student", PointsPossible: 7, PointsOverride: 6}
	res, err := env.svc.PeerScoreOverride(testCtx, courseStaffCaller(), testCourseID, testItemID, req)
	if err != nil {
		t.Fatalf("PeerScoreOverride() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("PeerScoreOverride() failed: %q", res.Msg)
	}
	if want := "Score overridden successfully."; res.Msg != want {
		t.Errorf("Msg = %q, want %q", res.Msg, want)
	}

	// last write wins in the scoring subsystem
	score, err := env.deps.Peer.OverrideScoreData(testCtx, "", si)
	if err != nil {
		t.Fatalf("OverrideScoreData() error = %v", err)
	}
	if score == nil {
		t.Fatal("OverrideScoreData() = nil after override")
	}
	if score.PointsEarned != 6 || score.PointsPossible != 7 {
		t.Errorf("score = %d/%d, want 6/7", score.PointsEarned, score.PointsPossible)
	}
}

func TestPeerScoreOverrideTooHigh(t *testing.T) {
	item := testItem()
	env := newTestEnv(t, item)
	si := item.StudentItem("t.student")
	env.db.SetScore(si, assessment.Score{PointsEarned: 3, PointsPossible: 7})

	req := OverrideRequest{StudentID: "t.student", PointsPossible: 7, PointsOverride: 8}
	res, err := env.svc.PeerScoreOverride(testCtx, courseStaffCaller(), testCourseID, testItemID, req)
	if err != nil {
		t.Fatalf("PeerScoreOverride() error = %v", err)
	}
	if res.Success {
		t.Error("Success = true for an override above the points possible")
	}
	if want := "Override score is greater than the total points possible."; res.Msg != want {
		t.Errorf("Msg = %q, want %q", res.Msg, want)
	}

	// the standing score is untouched
	score, err := env.deps.Peer.OverrideScoreData(testCtx, "", si)
	if err != nil {
		t.Fatalf("OverrideScoreData() error = %v", err)
	}
	if score == nil || score.PointsEarned != 3 {
		t.Errorf("score = %+v, want the original 3/7", score)
	}
}

// the service forwards the identity and points untouched and passes the
// subsystem's verdict through
func TestPeerScoreOverridePassthrough(t *testing.T) {
	item := testItem()
	env := newTestEnv(t, item)

	peer := &recordingPeer{
		PeerAPI: env.deps.Peer,
		result:  assessment.OverrideResult{Success: true, Msg: "Score overridden successfully."},
	}
	deps := env.deps
	deps.Peer = peer
	svc := NewService(deps)

	req := OverrideRequest{StudentID: " t.student ", PointsPossible: 7, PointsOverride: 0}
	res, err := svc.PeerScoreOverride(testCtx, courseStaffCaller(), testCourseID, testItemID, req)
	if err != nil {
		t.Fatalf("PeerScoreOverride() error = %v", err)
	}
	if res != peer.result {
		t.Errorf("result = %+v, want the subsystem verdict %+v", res, peer.result)
	}

	want := item.StudentItem("t.student")
	if peer.lastSI != want {
		t.Errorf("StudentItem = %+v, want %+v", peer.lastSI, want)
	}
	if peer.lastOverride != 0 || peer.lastPossible != 7 {
		t.Errorf("points = (%d, %d), want (0, 7)", peer.lastOverride, peer.lastPossible)
	}
}

func TestPeerScoreOverrideDenied(t *testing.T) {
	env := newTestEnv(t, testItem())

	req := OverrideRequest{StudentID: "t.student", PointsPossible: 7, PointsOverride: 6}
	_, err := env.svc.PeerScoreOverride(testCtx, studentCaller(), testCourseID, testItemID, req)
	if !core.IsPermissionDenied(err) {
		t.Fatalf("PeerScoreOverride() error = %v, want permission denial", err)
	}
	if want := "You do not have permission to access student information."; err.Error() != want {
		t.Errorf("denial msg = %q, want %q", err.Error(), want)
	}
}

func TestOverrideRequestValidate(t *testing.T) {
	validate := validator.New()
	eng := en.New()
	uni := ut.New(eng, eng)
	translator, _ := uni.GetTranslator(eng.Locale())
	core.InitValidators(validate, translator)

	tests := []struct {
		name    string
		req     OverrideRequest
		wantErr bool
	}{
		{name: "valid", req: OverrideRequest{StudentID: "t.student", PointsPossible: 7, PointsOverride: 6}},
		{name: "zero override is a valid score", req: OverrideRequest{StudentID: "t.student", PointsPossible: 7}},
		{name: "student id cleaned", req: OverrideRequest{StudentID: "  t.student  ", PointsPossible: 7}},
		{name: "student id required", req: OverrideRequest{PointsPossible: 7, PointsOverride: 3}, wantErr: true},
		{name: "points possible required", req: OverrideRequest{StudentID: "t.student", PointsOverride: 3}, wantErr: true},
		{name: "negative override", req: OverrideRequest{StudentID: "t.student", PointsPossible: 7, PointsOverride: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if err := req.Validate(validate); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
			if !tt.wantErr && req.StudentID != "t.student" {
				t.Errorf("StudentID = %q, want cleaned %q", req.StudentID, "t.student")
			}
		})
	}
}
