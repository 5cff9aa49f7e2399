package application

import (
	"context"
	"slices"
)

// BuildQueue is a live view of the server's queue; nothing is cached.
type BuildQueue struct {
	server *Server
}

type queueDTO struct {
	Items []struct {
		Task struct {
			Name string `json:"name"`
		} `json:"task"`
	} `json:"items"`
}

// List returns the queued job names in server order.
func (q *BuildQueue) List(ctx context.Context) ([]string, error) {
	var doc queueDTO
	if err := q.server.getJSON(ctx, QueueURL(q.server.baseURL), &doc); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Items))
	for _, item := range doc.Items {
		names = append(names, item.Task.Name)
	}
	return names, nil
}

func (q *BuildQueue) Contains(ctx context.Context, name string) (bool, error) {
	names, err := q.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}
