package core

import "fmt"

// Query is an executed query and its results metadata.
// Its members are opaque to the workspace core apart from "id".
type Query map[string]any

// ID returns the query's client id.
func (q Query) ID() string {
	switch v := q["id"].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Clone returns a shallow copy of the query.
func (q Query) Clone() Query {
	c := make(Query, len(q)+1)
	for k, v := range q {
		c[k] = v
	}
	return c
}

// Query status values reported by the execution layer.
const (
	QueryStatusPending  = "pending"
	QueryStatusRunning  = "running"
	QueryStatusSuccess  = "success"
	QueryStatusFailed   = "failed"
	QueryStatusStopped  = "stopped"
	QueryStatusFetching = "fetching"
)
