package classify

import (
	"testing"

	"github.com/hemantapkh/NcellBot/internal/carrier"

	"github.com/stretchr/testify/assert"
)

func TestClassify_CodeTables(t *testing.T) {
	tests := []struct {
		name     string
		op       Operation
		resp     carrier.Response
		wantKind Kind
		wantFail Failure
	}{
		{
			name:     "otp send accepted",
			op:       OpOTPSend,
			resp:     carrier.Response{ResponseCode: "OTP1000"},
			wantKind: Success,
		},
		{
			name:     "otp send limit reached",
			op:       OpOTPSend,
			resp:     carrier.Response{ResponseCode: "OTP2005"},
			wantKind: DomainFailure,
			wantFail: FailureOTPSendExceeded,
		},
		{
			name:     "otp send invalid number",
			op:       OpOTPSend,
			resp:     carrier.Response{ResponseCode: "LGN2007"},
			wantKind: DomainFailure,
			wantFail: FailureInvalidNumber,
		},
		{
			name:     "otp exchange expired code",
			op:       OpOTPExchange,
			resp:     carrier.Response{ResponseCode: "OTP2006"},
			wantKind: DomainFailure,
			wantFail: FailureOTPExpired,
		},
		{
			name:     "otp exchange wrong code",
			op:       OpOTPExchange,
			resp:     carrier.Response{ResponseCode: "OTP2003"},
			wantKind: DomainFailure,
			wantFail: FailureInvalidOTP,
		},
		{
			name:     "balance query succeeded",
			op:       OpBalance,
			resp:     carrier.Response{ResponseCode: "BAL1000"},
			wantKind: Success,
		},
		{
			name:     "profile query succeeded",
			op:       OpProfile,
			resp:     carrier.Response{ResponseCode: "SUB1000"},
			wantKind: Success,
		},
		{
			name:     "plan list succeeded",
			op:       OpPlanList,
			resp:     carrier.Response{ResponseCode: "QAP1000"},
			wantKind: Success,
		},
		{
			name:     "subscribed products succeeded",
			op:       OpPlanList,
			resp:     carrier.Response{ResponseCode: "BIL2000"},
			wantKind: Success,
		},
		{
			name:     "subscribe already active",
			op:       OpSubscribe,
			resp:     carrier.Response{ResponseCode: "PSU2003"},
			wantKind: DomainFailure,
			wantFail: FailureAlreadySubscribed,
		},
		{
			name:     "unsubscribe already inactive",
			op:       OpUnsubscribe,
			resp:     carrier.Response{ResponseCode: "PSU2004"},
			wantKind: DomainFailure,
			wantFail: FailureAlreadyUnsubscribed,
		},
		{
			name:     "loan granted",
			op:       OpLoan,
			resp:     carrier.Response{ResponseCode: "CL1003"},
			wantKind: Success,
		},
		{
			name:     "loan refused",
			op:       OpLoan,
			resp:     carrier.Response{ResponseCode: "CL3001"},
			wantKind: DomainFailure,
			wantFail: FailureLoanRefused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Classify(tt.op, tt.resp)
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantFail, out.Failure)
		})
	}
}

func TestClassify_SessionExpiryWinsForEveryOperation(t *testing.T) {
	ops := []Operation{
		OpOTPSend, OpOTPExchange, OpBalance, OpProfile, OpSMS,
		OpRecharge, OpPlanList, OpSubscribe, OpUnsubscribe, OpLoan,
	}
	for _, op := range ops {
		for _, code := range []string{"LGN2003", "LGN2004"} {
			out := Classify(op, carrier.Response{ResponseCode: code})
			assert.Equal(t, SessionExpired, out.Kind, "op %s code %s", op, code)
			assert.Equal(t, code, out.Code)
			assert.True(t, out.Expired())
		}
	}
}

func TestClassify_UnknownKeepsVerbatimDiagnostics(t *testing.T) {
	out := Classify(OpBalance, carrier.Response{
		ResponseCode: "BAL9999",
		Description:  "Downstream system unavailable",
		StatusCode:   7,
	})

	assert.Equal(t, Unknown, out.Kind)
	assert.Equal(t, "BAL9999", out.Code)
	assert.Equal(t, "Downstream system unavailable", out.Description)
	assert.Equal(t, 7, out.StatusCode)
}

func TestClassify_Pure(t *testing.T) {
	resp := carrier.Response{ResponseCode: "OTP2005", Description: "limit"}

	first := Classify(OpOTPSend, resp)
	second := Classify(OpOTPSend, resp)

	assert.Equal(t, first, second)
}

func TestClassifySMS(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantKind Kind
		wantFail Failure
	}{
		{"delivered", "0", Success, ""},
		{"free quota exhausted", "1", DomainFailure, FailureFreeSMSExceeded},
		{"offnet destination", "3", DomainFailure, FailureOffnetSMS},
		{"insufficient balance", "4", DomainFailure, FailureInsufficientBalance},
		{"rejected", "99", DomainFailure, FailureSMSRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Classify(OpSMS, carrier.Response{
				ResponseCode: "SMS1000",
				Payload: map[string]any{
					"sendFreeSMSResponse": map[string]any{"statusCode": tt.status},
				},
			})
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantFail, out.Failure)
		})
	}
}

func TestClassifySMS_MissingNestedStatus(t *testing.T) {
	out := Classify(OpSMS, carrier.Response{ResponseCode: "SMS1000"})
	assert.Equal(t, Unknown, out.Kind)
}

func TestClassifyRecharge_PayloadFlagWins(t *testing.T) {
	out := Classify(OpRecharge, carrier.Response{
		ResponseCode: "MRG9999",
		Payload:      map[string]any{"isRechargeSuccess": true},
	})
	assert.Equal(t, Success, out.Kind)
}

func TestClassifyRecharge_ByDescription(t *testing.T) {
	tests := []struct {
		description string
		wantFail    Failure
	}{
		{"MSISDN does not exist.", FailureInvalidNumber},
		{"The user is in black list.", FailureBlacklisted},
		{"the password cannot be found in online vc", FailureIncorrectPin},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			out := Classify(OpRecharge, carrier.Response{
				ResponseCode: "OPS2104",
				Description:  tt.description,
				Payload:      map[string]any{"isRechargeSuccess": false},
			})
			assert.Equal(t, DomainFailure, out.Kind)
			assert.Equal(t, tt.wantFail, out.Failure)
		})
	}
}

func TestClassifyRecharge_FallsThroughToCodeTable(t *testing.T) {
	out := Classify(OpRecharge, carrier.Response{ResponseCode: "MRG2001"})
	assert.Equal(t, DomainFailure, out.Kind)
	assert.Equal(t, FailureIncorrectPin, out.Failure)
}
