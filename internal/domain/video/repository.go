package video

import "context"

type Repository interface {
	Insert(ctx context.Context, s Suggestion) (Suggestion, error)
	GetByID(ctx context.Context, id int64) (*Suggestion, error)
	// ListByMatch returns suggestions ordered by vote score descending.
	ListByMatch(ctx context.Context, matchID int64) ([]Suggestion, error)
	// CastVote records one vote per (suggestion, user); re-voting with a
	// different value switches the vote.
	CastVote(ctx context.Context, suggestionID int64, userID string, value int) error
}
