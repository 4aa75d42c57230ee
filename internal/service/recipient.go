package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/stemsi/mailroom-backend/internal/model"
)

// Recipient group labels accepted by the send and preview endpoints.
const (
	GroupAll      = "all"
	GroupStudents = "students"
	GroupParents  = "parents"
	GroupClass    = "class"
)

// PreviewGroups is the fixed list of groups offered to the operator.
var PreviewGroups = []string{GroupAll, GroupStudents, GroupParents}

// SelectorKind tags the variant held by a Selector.
type SelectorKind int

const (
	SelectorNone SelectorKind = iota
	SelectorAll
	SelectorRole
	SelectorClass
	SelectorExplicit
)

// Selector says who receives a broadcast. Only the field matching Kind is set.
type Selector struct {
	Kind    SelectorKind
	Role    model.Role
	ClassID int
	Emails  []string
}

// ParseSelector decides the selector for a send request. Precedence:
// all, then students/parents, then a class id, then a literal comma-separated list.
func ParseSelector(recipients, class string) (Selector, error) {
	recipients = strings.TrimSpace(recipients)

	if sel, ok := groupSelector(recipients); ok {
		return sel, nil
	}

	if class = strings.TrimSpace(class); class != "" {
		id, err := parseClassID(class)
		if err != nil {
			return Selector{}, err
		}
		return Selector{Kind: SelectorClass, ClassID: id}, nil
	}

	var emails []string
	for _, part := range strings.Split(recipients, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			emails = append(emails, addr)
		}
	}
	return Selector{Kind: SelectorExplicit, Emails: emails}, nil
}

// PreviewSelector decides the selector for the recipients preview. There is no
// literal-list fallback: unknown groups select nobody.
func PreviewSelector(group, classID string) (Selector, error) {
	group = strings.TrimSpace(group)

	if sel, ok := groupSelector(group); ok {
		return sel, nil
	}

	if group == GroupClass && strings.TrimSpace(classID) != "" {
		id, err := parseClassID(classID)
		if err != nil {
			return Selector{}, err
		}
		return Selector{Kind: SelectorClass, ClassID: id}, nil
	}

	return Selector{Kind: SelectorNone}, nil
}

func groupSelector(group string) (Selector, bool) {
	switch group {
	case GroupAll:
		return Selector{Kind: SelectorAll}, true
	case GroupStudents:
		return Selector{Kind: SelectorRole, Role: model.RoleStudent}, true
	case GroupParents:
		return Selector{Kind: SelectorRole, Role: model.RoleParent}, true
	}
	return Selector{}, false
}

func parseClassID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 1 {
		return 0, ErrInvalidClass
	}
	return id, nil
}

// Resolve maps a selector to a concrete address list.
func Resolve(ctx context.Context, users UserStore, sel Selector) ([]string, error) {
	switch sel.Kind {
	case SelectorAll:
		return users.ListEmails(ctx, model.UserFilter{})
	case SelectorRole:
		return users.ListEmails(ctx, model.UserFilter{Role: sel.Role})
	case SelectorClass:
		id := sel.ClassID
		return users.ListEmails(ctx, model.UserFilter{ClassID: &id})
	case SelectorExplicit:
		return sel.Emails, nil
	}
	return []string{}, nil
}
