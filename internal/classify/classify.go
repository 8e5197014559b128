package classify

import (
	"github.com/hemantapkh/NcellBot/internal/carrier"
)

// Operation selects the response-code table to classify against. The carrier
// reuses codes with different meanings across operations, so callers must
// say which one produced the response.
type Operation string

const (
	OpOTPSend     Operation = "otp_send"
	OpOTPExchange Operation = "otp_exchange"
	OpBalance     Operation = "balance"
	OpProfile     Operation = "profile"
	OpSMS         Operation = "sms"
	OpRecharge    Operation = "recharge"
	OpPlanList    Operation = "plan_list"
	OpSubscribe   Operation = "subscribe"
	OpUnsubscribe Operation = "unsubscribe"
	OpLoan        Operation = "loan"
)

type entry struct {
	kind    Kind
	failure Failure
}

var success = entry{kind: Success}

func domain(f Failure) entry { return entry{kind: DomainFailure, failure: f} }

// tables maps each operation's known response codes. Codes absent from the
// table classify as Unknown with the carrier's description kept verbatim.
var tables = map[Operation]map[string]entry{
	OpOTPSend: {
		"OTP1000": success,
		"OTP2005": domain(FailureOTPSendExceeded),
		"LGN2007": domain(FailureInvalidNumber),
	},
	OpOTPExchange: {
		"OTP1000": success,
		"OTP2002": domain(FailureOTPAttemptsExceeded),
		"OTP2003": domain(FailureInvalidOTP),
		"OTP2006": domain(FailureOTPExpired),
	},
	OpBalance: {
		"BAL1000": success,
	},
	OpProfile: {
		"SUB1000": success,
	},
	OpRecharge: {
		"MRG2001": domain(FailureIncorrectPin),
		"MRG2000": domain(FailureBlacklisted),
		"OPS1000": success,
		"OPS2000": domain(FailureAmountBelowMinimum),
		"OPS2011": domain(FailureAmountBelowMinimum),
		"OPS2012": domain(FailureAmountAboveLimit),
		"OPS2104": domain(FailureInvalidNumber),
		"OPS2003": domain(FailureInvalidNumber),
	},
	OpPlanList: {
		"QAP1000": success,
		"BIL2000": success,
	},
	OpSubscribe: {
		"BIL1000": success,
		"PSU2003": domain(FailureAlreadySubscribed),
	},
	OpUnsubscribe: {
		"BIL1001": success,
		"PSU2004": domain(FailureAlreadyUnsubscribed),
	},
	OpLoan: {
		"CL1003": success,
		"CL3001": domain(FailureLoanRefused),
	},
}

// rechargeByDescription resolves recharge-to-others failures. The carrier
// answers those with a single reused code and distinguishes them only in the
// description text. Known-fragile: kept byte-for-byte for compatibility
// until the carrier exposes stable codes.
var rechargeByDescription = map[string]Failure{
	"MSISDN does not exist.":                    FailureInvalidNumber,
	"The user is in black list.":                FailureBlacklisted,
	"the password cannot be found in online vc": FailureIncorrectPin,
}

// smsByStatus resolves the nested delivery status inside an accepted
// ("SMS1000") send response.
var smsByStatus = map[string]entry{
	"0":  success,
	"1":  domain(FailureFreeSMSExceeded),
	"3":  domain(FailureOffnetSMS),
	"4":  domain(FailureInsufficientBalance),
	"99": domain(FailureSMSRejected),
}

// Classify maps a raw carrier response to an Outcome for the given
// operation. Pure: same inputs always produce the same Outcome.
func Classify(op Operation, resp carrier.Response) Outcome {
	if carrier.IsSessionExpiry(resp.ResponseCode) {
		return Outcome{
			Kind:        SessionExpired,
			Code:        resp.ResponseCode,
			Description: resp.Description,
			StatusCode:  resp.StatusCode,
		}
	}

	switch op {
	case OpSMS:
		return classifySMS(resp)
	case OpRecharge:
		if out, ok := classifyRechargeResult(resp); ok {
			return out
		}
	}

	if e, ok := tables[op][resp.ResponseCode]; ok {
		return outcomeFor(e, resp)
	}
	return unknown(resp.ResponseCode, resp.Description, resp.StatusCode)
}

// classifySMS unwraps the nested send status: the envelope code "SMS1000"
// only means the request was accepted.
func classifySMS(resp carrier.Response) Outcome {
	if resp.ResponseCode != "SMS1000" {
		return unknown(resp.ResponseCode, resp.Description, resp.StatusCode)
	}

	inner, ok := resp.Payload["sendFreeSMSResponse"].(map[string]any)
	if !ok {
		return unknown(resp.ResponseCode, resp.Description, resp.StatusCode)
	}
	status, _ := inner["statusCode"].(string)
	if e, ok := smsByStatus[status]; ok {
		return outcomeFor(e, resp)
	}
	desc, _ := inner["description"].(string)
	return unknown(status, desc, resp.StatusCode)
}

// classifyRechargeResult handles pin recharges, whose success is signalled
// in the payload rather than the response code. Returns false when the
// response should fall through to the code table.
func classifyRechargeResult(resp carrier.Response) (Outcome, bool) {
	ok, present := resp.Payload["isRechargeSuccess"].(bool)
	if !present {
		return Outcome{}, false
	}
	if ok {
		return outcomeFor(success, resp), true
	}
	if f, ok := rechargeByDescription[resp.Description]; ok {
		return outcomeFor(domain(f), resp), true
	}
	if e, ok := tables[OpRecharge][resp.ResponseCode]; ok {
		return outcomeFor(e, resp), true
	}
	return unknown(resp.ResponseCode, resp.Description, resp.StatusCode), true
}

func outcomeFor(e entry, resp carrier.Response) Outcome {
	out := Outcome{
		Kind:        e.kind,
		Code:        resp.ResponseCode,
		Failure:     e.failure,
		Description: resp.Description,
		StatusCode:  resp.StatusCode,
	}
	if e.kind == Success {
		out.Payload = resp.Payload
	}
	return out
}

func unknown(code, description string, status int) Outcome {
	return Outcome{
		Kind:        Unknown,
		Code:        code,
		Description: description,
		StatusCode:  status,
	}
}
