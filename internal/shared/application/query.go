package application

import "context"

// Query is a named read. Report queries never mutate state.
type Query interface {
	QueryName() string
}

// QueryHandler answers one query type with a result of type R.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
