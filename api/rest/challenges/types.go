package challenges

import (
	"context"

	"codeberg.org/serenity/server/internal/upstream"
)

// upstream operations the controllers proxy to
type API interface {
	ActiveChallenges(ctx context.Context, rawQuery, authorization string) (*upstream.Response, error)
	Challenge(ctx context.Context, challengeID, rawQuery, authorization string) (*upstream.Response, error)
	Results(ctx context.Context, challengeID, rawQuery, authorization string) (*upstream.Response, error)
	Register(ctx context.Context, challengeID, rawQuery, authorization string) (*upstream.Response, error)
	Documents(ctx context.Context, challengeID, rawQuery, authorization string) (*upstream.Response, error)
	Terms(ctx context.Context, challengeID, rawQuery, authorization string) (*upstream.Response, error)
	ChallengeFileURL(ctx context.Context, challengeID, fileID, rawQuery, authorization string) (*upstream.Response, error)
	SubmissionFileURL(ctx context.Context, challengeID, submissionID, fileID, rawQuery, authorization string) (*upstream.Response, error)
	SubmitFile(ctx context.Context, challengeID, rawQuery, authorization string, upload upstream.Upload) (*upstream.Response, error)
}

// placeholder checkpoint listing; no upstream source exists yet
type CheckpointsResponse struct {
	ChallengeID string       `json:"challengeId"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}

type Checkpoint struct {
	ID       string `json:"id"`
	Feedback string `json:"feedback"`
}
