package leave

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusInReview  Status = "IN_REVIEW"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected, StatusInReview, StatusCancelled},
	StatusInReview:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusRejected, StatusCancelled},
	StatusRejected:  {StatusApproved, StatusInReview},
	StatusCancelled: {StatusPending, StatusInReview},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions lists the statuses reachable from s.
func AllowedTransitions(s Status) []Status {
	return append([]Status(nil), transitions[s]...)
}

// Blocking statuses reserve their dates against overlapping requests.
func (s Status) Blocking() bool {
	return s == StatusPending || s == StatusApproved || s == StatusInReview
}

// InitialStatuses may be set when a leave is created.
func (s Status) Initial() bool {
	return s == StatusPending || s == StatusInReview || s == StatusApproved
}
