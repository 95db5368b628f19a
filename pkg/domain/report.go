package domain

import "time"

// Stages a key can fail at during a sync run.
const (
	StageFetch     = "fetch"
	StageClassify  = "classify"
	StageTransform = "transform"
	StageWrite     = "write"
	StageVerify    = "verify"
	StageDelete    = "delete"
)

// KeyFailure records a single key that could not be processed, with the
// pipeline stage it failed at.
type KeyFailure struct {
	Key   string `bson:"key" json:"key"`
	Stage string `bson:"stage" json:"stage"`
	Err   string `bson:"error" json:"error"`
}

// RunReport summarizes one sync invocation for one document type.
// A run always produces a report, even when every key failed.
type RunReport struct {
	DocType  string    `json:"doc_type"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`

	Considered    int `json:"considered"`
	Created       int `json:"created"`
	Updated       int `json:"updated"`
	Deleted       int `json:"deleted"`
	Unpublishable int `json:"unpublishable"`
	Failed        int `json:"failed"`

	// Failures lists every failed key with its failure stage.
	Failures []KeyFailure `json:"failures,omitempty"`
	// Unpublishable keys: pages that matched no publishable variant or
	// lost their published flag during this run.
	UnpublishableKeys []string `json:"unpublishable_keys,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`

	DryRun bool `json:"dry_run"`
}

// AddFailure records a failed key and bumps the counter.
func (r *RunReport) AddFailure(key, stage string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, KeyFailure{Key: key, Stage: stage, Err: err.Error()})
}

// AddUnpublishable records a key excluded from publishing.
func (r *RunReport) AddUnpublishable(key string) {
	r.Unpublishable++
	r.UnpublishableKeys = append(r.UnpublishableKeys, key)
}

// Elapsed returns the run duration.
func (r *RunReport) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}
