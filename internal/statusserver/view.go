package statusserver

import (
	"github.com/pace-org/pace-go/internal/domain"
)

// activityView is the wire shape returned by GET /status, a thin
// projection over domain.Activity that exposes only what a status
// display needs (no internal record/yaml tags).
type activityView struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Kind        string   `json:"kind"`
	Status      string   `json:"status"`
	Begin       string   `json:"begin"`
	End         string   `json:"end,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
}

func viewOf(a *domain.Activity) *activityView {
	v := &activityView{
		ID:          a.ID().String(),
		Description: a.Description(),
		Category:    a.Category(),
		Tags:        a.Tags(),
		Kind:        a.Kind().String(),
		Status:      a.Status().String(),
		Begin:       a.Begin().String(),
	}
	if end, ok := a.EndOptions(); ok {
		v.End = end.End.String()
	}
	if parent, ok := a.ParentID(); ok {
		v.ParentID = parent.String()
	}
	return v
}
