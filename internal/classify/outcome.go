package classify

// Kind partitions every carrier result into the four outcomes the rest of
// the system acts on.
type Kind int

const (
	// Success means the operation completed; Payload carries the content.
	Success Kind = iota
	// SessionExpired means the stored token is permanently invalid. The
	// default account must be removed and the user re-registered.
	SessionExpired
	// DomainFailure is an expected business-rule rejection with a specific
	// user-facing message. Never logged as an error.
	DomainFailure
	// Unknown is a carrier response this table does not recognize. The
	// original code and description are preserved verbatim.
	Unknown
)

// Failure names a domain-level rejection independent of the carrier's raw
// response codes.
type Failure string

const (
	FailureInvalidNumber       Failure = "invalid_number"
	FailureOTPSendExceeded     Failure = "otp_send_exceeded"
	FailureOTPAttemptsExceeded Failure = "otp_attempts_exceeded"
	FailureInvalidOTP          Failure = "invalid_otp"
	FailureOTPExpired          Failure = "otp_expired"
	FailureIncorrectPin        Failure = "incorrect_recharge_pin"
	FailureBlacklisted         Failure = "recharge_blacklisted"
	FailureAmountBelowMinimum  Failure = "amount_below_minimum"
	FailureAmountAboveLimit    Failure = "amount_above_limit"
	FailureFreeSMSExceeded     Failure = "free_sms_exceeded"
	FailureOffnetSMS           Failure = "offnet_sms"
	FailureInsufficientBalance Failure = "insufficient_balance"
	FailureSMSRejected         Failure = "sms_rejected"
	FailureAlreadySubscribed   Failure = "already_subscribed"
	FailureAlreadyUnsubscribed Failure = "already_unsubscribed"
	FailureLoanRefused         Failure = "loan_refused"
)

// Outcome is the classified result of a single carrier call. It is a
// transient value, never persisted.
type Outcome struct {
	Kind        Kind
	Code        string         // raw carrier response code
	Failure     Failure        // set when Kind == DomainFailure
	Description string         // verbatim carrier description
	StatusCode  int            // verbatim transport status
	Payload     map[string]any // set when Kind == Success
}

// Expired reports whether the outcome requires session invalidation.
func (o Outcome) Expired() bool { return o.Kind == SessionExpired }

// OK reports whether the carrier accepted the operation.
func (o Outcome) OK() bool { return o.Kind == Success }
