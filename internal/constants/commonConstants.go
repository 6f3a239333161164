package constants

type (
	APIStatus   string
	CachePrefix string
	JobKind     string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixEmployeeRole    CachePrefix = "ROLE_"
	CachePrefixFundraiseStatus CachePrefix = "FR_STATUS_"

	JobKindConfirmationLetter  JobKind = "email_confirmation_letter"
	JobKindPasswordResetLetter JobKind = "change_password_letter"

	// EmailLetterStream is the Redis stream carrying outbound email jobs.
	EmailLetterStream = "letters:outbound"
	// EmailLetterGroup is the consumer group the letter workers read with.
	EmailLetterGroup = "letter-workers"
)
