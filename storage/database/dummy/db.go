package dummydb

import (
	"sync"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type (
	itemKey struct {
		courseID string
		itemID   string
	}

	studentKey struct {
		courseID  string
		itemID    string
		studentID string
	}

	DB struct {
		items       *itemTable
		submissions *submissionTable
		workflows   *workflowTable
		peer        *peerTable
		self        *selfTable
	}

	itemTable struct {
		sync.RWMutex
		table map[itemKey]*assessment.Item
	}

	submissionTable struct {
		sync.RWMutex
		table map[studentKey][]*assessment.Submission
		index map[string]itemKey // submission uuid -> owning item
	}

	// workflowTable tracks the current step of each submission.
	workflowTable struct {
		sync.RWMutex
		table map[itemKey]map[string]assessment.Step // submission uuid -> step
	}

	peerTable struct {
		sync.RWMutex
		received  map[string][]*assessment.Assessment // submission uuid -> assessments received
		submitted map[string][]*assessment.Assessment // scorer submission uuid -> assessments authored
		scores    map[studentKey]*assessment.Score
		edits     map[string][]*assessment.TrackChanges // owner submission uuid -> edited copies
	}

	selfTable struct {
		sync.RWMutex
		table map[string]*assessment.Assessment // submission uuid -> self assessment
	}
)

func Open() (*DB, error) {
	db := &DB{
		items: &itemTable{table: make(map[itemKey]*assessment.Item)},
		submissions: &submissionTable{
			table: make(map[studentKey][]*assessment.Submission),
			index: make(map[string]itemKey),
		},
		workflows:   &workflowTable{table: make(map[itemKey]map[string]assessment.Step)},
		peer: &peerTable{
			received:  make(map[string][]*assessment.Assessment),
			submitted: make(map[string][]*assessment.Assessment),
			scores:    make(map[studentKey]*assessment.Score),
			edits:     make(map[string][]*assessment.TrackChanges),
		},
		self: &selfTable{table: make(map[string]*assessment.Assessment)},
	}
	return db, nil
}

// Seeding helpers; the repository interfaces are read-only (the stores are
// owned by external subsystems), so tests and dev fixtures load data through
// these instead.

func (db *DB) AddItem(item assessment.Item) {
	db.items.Lock()
	defer db.items.Unlock()
	db.items.table[itemKey{item.CourseID, item.ItemID}] = &item
}

// AddSubmission stores the submission and places it at the submission step
// of its item's workflow.
func (db *DB) AddSubmission(sub assessment.Submission) {
	si := sub.StudentItem
	key := studentKey{si.CourseID, si.ItemID, si.StudentID}

	db.submissions.Lock()
	db.submissions.table[key] = append(db.submissions.table[key], &sub)
	db.submissions.index[sub.UUID] = itemKey{si.CourseID, si.ItemID}
	db.submissions.Unlock()

	db.SetWorkflowStep(si.CourseID, si.ItemID, sub.UUID, assessment.StepSubmission)
}

func (db *DB) SetWorkflowStep(courseID, itemID, submissionUUID string, step assessment.Step) {
	db.workflows.Lock()
	defer db.workflows.Unlock()

	key := itemKey{courseID, itemID}
	if db.workflows.table[key] == nil {
		db.workflows.table[key] = make(map[string]assessment.Step)
	}
	db.workflows.table[key][submissionUUID] = step
}

func (db *DB) AddPeerAssessment(asmt assessment.Assessment) {
	db.peer.Lock()
	defer db.peer.Unlock()
	asmt.ScoreType = assessment.StepPeer
	db.peer.received[asmt.SubmissionUUID] = append(db.peer.received[asmt.SubmissionUUID], &asmt)
}

// AddSubmittedAssessment records an assessment authored by the owner of
// scorerSubmissionUUID.
func (db *DB) AddSubmittedAssessment(scorerSubmissionUUID string, asmt assessment.Assessment) {
	db.peer.Lock()
	defer db.peer.Unlock()
	asmt.ScoreType = assessment.StepPeer
	db.peer.submitted[scorerSubmissionUUID] = append(db.peer.submitted[scorerSubmissionUUID], &asmt)
}

func (db *DB) SetScore(si assessment.StudentItem, score assessment.Score) {
	db.peer.Lock()
	defer db.peer.Unlock()
	db.peer.scores[studentKey{si.CourseID, si.ItemID, si.StudentID}] = &score
}

func (db *DB) AddTrackChanges(tc assessment.TrackChanges) {
	db.peer.Lock()
	defer db.peer.Unlock()
	db.peer.edits[tc.OwnerSubmissionUUID] = append(db.peer.edits[tc.OwnerSubmissionUUID], &tc)
}

func (db *DB) SetSelfAssessment(asmt assessment.Assessment) {
	db.self.Lock()
	defer db.self.Unlock()
	asmt.ScoreType = assessment.StepSelf
	db.self.table[asmt.SubmissionUUID] = &asmt
}
