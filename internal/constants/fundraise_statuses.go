package constants

// FundraiseStatusName mirrors the pre-populated fundraise_statuses table.
type FundraiseStatusName string

const (
	StatusNew        FundraiseStatusName = "New"
	StatusInProgress FundraiseStatusName = "In progress"
	StatusOnHold     FundraiseStatusName = "On hold"
	StatusCompleted  FundraiseStatusName = "Completed"
)

func (s FundraiseStatusName) String() string { return string(s) }

// AllFundraiseStatuses is the population set for the fundraise_statuses table.
var AllFundraiseStatuses = []FundraiseStatusName{
	StatusNew,
	StatusInProgress,
	StatusOnHold,
	StatusCompleted,
}

// AllowedPreviousStatuses maps a target status to the set of statuses a
// fundraise may move from. "New" is only ever an initial status: a fundraise
// with any history cannot return to it.
var AllowedPreviousStatuses = map[FundraiseStatusName][]FundraiseStatusName{
	StatusNew:        {},
	StatusInProgress: {StatusNew, StatusOnHold, StatusCompleted},
	StatusOnHold:     {StatusNew, StatusInProgress, StatusCompleted},
	StatusCompleted:  {StatusNew, StatusInProgress, StatusOnHold},
}

// DonatableStatuses derives the is-donatable predicate from the current
// status. Not stored; computed on read.
var DonatableStatuses = map[FundraiseStatusName]bool{
	StatusNew:        true,
	StatusInProgress: true,
	StatusOnHold:     false,
	StatusCompleted:  false,
}

// TransitionAllowed reports whether a fundraise currently in `from` may move
// to `to`. Self-loops are never legal.
func TransitionAllowed(from, to FundraiseStatusName) bool {
	for _, prev := range AllowedPreviousStatuses[to] {
		if prev == from {
			return true
		}
	}
	return false
}

// IsDonatable reports whether donations targeting a fundraise in the given
// status are accepted.
func IsDonatable(status FundraiseStatusName) bool {
	return DonatableStatuses[status]
}
