package constants

const (
	MsgInvalidToken       = "Invalid token"
	MsgTokenExpired       = "Token expired"
	MsgTokenAlreadyUsed   = "Token already expired or used"
	MsgTokenSpamFmt       = "Token was requested too soon, try again in %s"
	MsgUserActivatedFmt   = "User with email: '%s' already activated"
	MsgUserActivatedOkFmt = "User with email: '%s' successfully activated"
	MsgPasswordChangedFmt = "User with email: '%s' successfully changed password"

	MsgWrongCredentials = "Incorrect username or password"

	MsgNotAMemberFmt      = "Caller is not an employee of charity with id: '%s'"
	MsgForbiddenFmt       = "Employee roles %v have no permission to perform this operation"
	MsgLastSupervisorFmt  = "Charity with id: '%s' must keep at least one supervisor"
	MsgIllegalTransFmt    = "Fundraise status cannot change from '%s' to '%s'"
	MsgNotDonatableFmt    = "Fundraise with id: '%s' does not accept donations in status '%s'"
	MsgInsufficientFunds  = "Not enough funds at sender balance"
	MsgAmountNotPositive  = "Amount must be greater than zero"
	MsgSerializationRetry = "Operation conflicted with a concurrent update, please retry"
)
