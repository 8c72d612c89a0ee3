package csvio

import (
	"encoding/csv"
	"io"
	"strings"
	"testing"

	"github.com/sheikh-saqib/toy-payments-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, input string) ([]models.TransactionRecord, error) {
	t.Helper()
	r := NewReader(strings.NewReader(input))
	var out []models.TransactionRecord
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func TestReadRecords(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 1, 1, 1.5\n" +
		"  withdrawal ,2 , 2 , 0.25 \n" +
		"dispute, 1, 1,\n" +
		"resolve,1,1,\n" +
		"chargeback,1,1,\n"

	recs, err := readAll(t, input)
	require.NoError(t, err)
	require.Len(t, recs, 5)

	assert.Equal(t, models.KindDeposit, recs[0].Kind)
	assert.Equal(t, models.ClientID(1), recs[0].Client)
	assert.Equal(t, models.TxID(1), recs[0].Tx)
	amt, ok := recs[0].Amount()
	require.True(t, ok)
	assert.Equal(t, "1.5", amt.String())

	assert.Equal(t, models.KindWithdrawal, recs[1].Kind)
	assert.Equal(t, models.ClientID(2), recs[1].Client)
	amt, ok = recs[1].Amount()
	require.True(t, ok)
	assert.Equal(t, "0.25", amt.String())

	for i, k := range []models.Kind{models.KindDispute, models.KindResolve, models.KindChargeback} {
		assert.Equal(t, k, recs[i+2].Kind)
		_, ok := recs[i+2].Amount()
		assert.False(t, ok)
	}
}

func TestReadEmptyInput(t *testing.T) {
	recs, err := readAll(t, "")
	require.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = readAll(t, "type,client,tx,amount\n")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadThreeColumnFile(t *testing.T) {
	recs, err := readAll(t, "type,client,tx\ndispute,4,9\n")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.KindDispute, recs[0].Kind)
	assert.Equal(t, models.TxID(9), recs[0].Tx)
}

func TestUnknownTypeIsNotAParseError(t *testing.T) {
	recs, err := readAll(t, "type,client,tx,amount\nfoo,3,4,\nDEPOSIT,3,5,1.0\n")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, models.KindUnknown, recs[0].Kind)
	assert.Equal(t, models.KindUnknown, recs[1].Kind)
	assert.Equal(t, models.ClientID(3), recs[1].Client)
}

func TestAmountOnDisputeIsDropped(t *testing.T) {
	recs, err := readAll(t, "type,client,tx,amount\ndispute,1,1,5.0\n")
	require.NoError(t, err)
	_, ok := recs[0].Amount()
	assert.False(t, ok)
}

func TestMissingDepositAmountIsNotAParseError(t *testing.T) {
	recs, err := readAll(t, "type,client,tx,amount\ndeposit,1,1,\n")
	require.NoError(t, err)
	_, ok := recs[0].Amount()
	assert.False(t, ok)
}

func TestMalformedRows(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"wrong column count", "type,client,tx,amount\ndeposit,1,1,1.0\ndeposit,1,2\n", "wrong number of fields"},
		{"bad amount", "type,client,tx,amount\ndeposit,1,1,abc\n", `invalid amount "abc"`},
		{"bad amount on dispute", "type,client,tx,amount\ndispute,1,1,x\n", `invalid amount "x"`},
		{"client overflow", "type,client,tx,amount\ndeposit,70000,1,1.0\n", `invalid client "70000"`},
		{"negative client", "type,client,tx,amount\ndeposit,-1,1,1.0\n", `invalid client "-1"`},
		{"bad tx", "type,client,tx,amount\ndeposit,1,4294967296,1.0\n", `invalid tx "4294967296"`},
		{"empty tx", "type,client,tx,amount\ndispute,1,,\n", `invalid tx ""`},
		{"huge exponent", "type,client,tx,amount\ndeposit,1,1,1e10000000\n", `invalid amount "1e10000000"`},
		{"tiny exponent", "type,client,tx,amount\ndeposit,1,1,1e-10000000\n", `invalid amount "1e-10000000"`},
		{"short header", "type,client\ndeposit,1\n", "header has 2 columns"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readAll(t, tc.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestAmountExponentBounds(t *testing.T) {
	recs, err := readAll(t, "type,client,tx,amount\ndeposit,1,1,1e28\nwithdrawal,1,2,0.0000000000000000000000000001\n")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	amt, _ := recs[0].Amount()
	assert.Equal(t, int32(28), amt.Exponent())

	_, err = readAll(t, "type,client,tx,amount\ndeposit,1,1,1e29\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exponent out of range")
}

func TestParseErrorsCarryLineNumber(t *testing.T) {
	_, err := readAll(t, "type,client,tx,amount\ndeposit,1,1,1.0\ndeposit,1,2,oops\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestFieldCountErrorIsUnwrappable(t *testing.T) {
	_, err := readAll(t, "type,client,tx,amount\ndeposit,1,1\n")
	assert.ErrorIs(t, err, csv.ErrFieldCount)
}
