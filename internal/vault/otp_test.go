// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package vault

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/undernetirc/keyvault/db/mocks"
	"github.com/undernetirc/keyvault/internal/auth/oath"
	"github.com/undernetirc/keyvault/internal/credential"
	"github.com/undernetirc/keyvault/models"
)

func fixedClock(ts int64) Option {
	return WithClock(func() time.Time { return time.Unix(ts, 0) })
}

func otpRows() []models.Keychain {
	return []models.Keychain{
		{ID: 1, Loc: "https://mail.example.com", Usr: "alice", Pwd: "correct horse",
			Ext: `{"type":"totp","name":"alice","secret":"` + rfcSecret + `","issuer":"Mail"}`},
		{ID: 2, Loc: "https://vpn.example.org", Usr: "bob", Pwd: "battery staple",
			Ext: `{"type":"hotp","name":"bob","secret":"` + rfcSecret + `","issuer":"VPN","counter":1}`},
		{ID: 3, Loc: "ssh://bastion", Usr: "carol", Pwd: "s3cr3t!"},
		{ID: 4, Loc: "https://broken.example", Usr: "dave", Pwd: "pw", Ext: "{not json"},
	}
}

// echoSwap makes SwapKeychainExt behave like the conditional update in the
// store: the write only lands while the stored extension equals OldExt
func echoSwap(service *mocks.ServiceInterface, base models.Keychain) {
	var mu sync.Mutex
	service.On("SwapKeychainExt", mock.Anything, mock.AnythingOfType("models.SwapKeychainExtParams")).
		Return(func(_ context.Context, arg models.SwapKeychainExtParams) (models.Keychain, error) {
			mu.Lock()
			defer mu.Unlock()
			if arg.ID != base.ID || arg.OldExt != base.Ext {
				return models.Keychain{}, pgx.ErrNoRows
			}
			base.Ext = arg.Ext
			return base, nil
		})
}

func hotpCounter(t *testing.T, v *Vault, id int32) uint64 {
	t.Helper()
	r, err := v.Get(id)
	require.NoError(t, err)
	c, err := r.OTP()
	require.NoError(t, err)
	return c.Counter
}

func TestPasscodeTotp(t *testing.T) {
	v, _ := loadedVault(t, otpRows(), fixedClock(59))

	p, err := v.Passcode(1)
	require.NoError(t, err)
	assert.Equal(t, "287082", p.Code)
	assert.Equal(t, uint64(1), p.Remaining)
	assert.Equal(t, oath.TypeTOTP, p.Type)
	assert.Equal(t, uint64(30), p.Period)
}

func TestPasscodeHotpDoesNotAdvance(t *testing.T) {
	v, _ := loadedVault(t, otpRows())

	for i := 0; i < 2; i++ {
		p, err := v.Passcode(2)
		require.NoError(t, err)
		assert.Equal(t, "287082", p.Code)
		assert.Equal(t, uint64(1), p.Counter)
		assert.Zero(t, p.Remaining)
	}
}

func TestPasscodeErrors(t *testing.T) {
	v, _ := loadedVault(t, otpRows())

	_, err := v.Passcode(3)
	assert.ErrorIs(t, err, ErrNoOTP)

	_, err = v.Passcode(4)
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)

	_, err = v.Passcode(99)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestNextHOTP(t *testing.T) {
	v, service := loadedVault(t, otpRows())
	echoSwap(service, otpRows()[1])

	code, err := v.NextHOTP(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "287082", code)

	code, err = v.NextHOTP(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "359152", code)

	assert.Equal(t, uint64(3), hotpCounter(t, v, 2))
}

func TestNextHOTPOnTotp(t *testing.T) {
	v, _ := loadedVault(t, otpRows())

	_, err := v.NextHOTP(context.Background(), 1)
	assert.ErrorIs(t, err, oath.ErrInvalidArgument)
}

func TestVerifyOTPHotpAdvancesPersistedCounter(t *testing.T) {
	v, service := loadedVault(t, otpRows())
	echoSwap(service, otpRows()[1])

	// counter 5 lies inside the window
	ok, err := v.VerifyOTP(context.Background(), 2, "254676")
	require.NoError(t, err)
	assert.True(t, ok)

	service.AssertCalled(t, "SwapKeychainExt", mock.Anything, mock.MatchedBy(func(arg models.SwapKeychainExtParams) bool {
		c, err := credential.Parse(arg.Ext)
		return err == nil && c.Counter == 6 && arg.OldExt == otpRows()[1].Ext
	}))

	// replaying the same code fails now
	ok, err = v.VerifyOTP(context.Background(), 2, "254676")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyOTPHotpConcurrentReplay(t *testing.T) {
	// both callers read the clock before either is let through, so both
	// are inside VerifyOTP when the counter is checked
	var arrived sync.WaitGroup
	arrived.Add(2)
	barrier := WithClock(func() time.Time {
		arrived.Done()
		arrived.Wait()
		return time.Unix(59, 0)
	})
	v, service := loadedVault(t, otpRows(), barrier)
	echoSwap(service, otpRows()[1])

	var (
		accepted atomic.Int32
		wg       sync.WaitGroup
	)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := v.VerifyOTP(context.Background(), 2, "287082")
			assert.NoError(t, err)
			if ok {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, uint64(2), hotpCounter(t, v, 2))
}

func TestNextHOTPConcurrentCallersGetDistinctCodes(t *testing.T) {
	v, service := loadedVault(t, otpRows())
	echoSwap(service, otpRows()[1])

	const callers = 5
	codes := make(chan string, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := v.NextHOTP(context.Background(), 2)
			assert.NoError(t, err)
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	var got []string
	for code := range codes {
		got = append(got, code)
	}
	// counters 1 to 5 of the RFC 4226 seed
	assert.ElementsMatch(t, []string{"287082", "359152", "969429", "338314", "254676"}, got)
	assert.Equal(t, uint64(callers+1), hotpCounter(t, v, 2))
}

func TestVerifyOTPCounterMovedByAnotherWriter(t *testing.T) {
	v, service := loadedVault(t, otpRows())

	// another process consumed counter 1 after this vault loaded the record
	moved := otpRows()[1]
	moved.Ext = `{"type":"hotp","name":"bob","secret":"` + rfcSecret + `","issuer":"VPN","counter":2}`
	service.On("SwapKeychainExt", mock.Anything, mock.MatchedBy(func(arg models.SwapKeychainExtParams) bool {
		return arg.OldExt == otpRows()[1].Ext
	})).Return(models.Keychain{}, pgx.ErrNoRows).Once()
	service.On("GetKeychainByID", mock.Anything, int32(2)).Return(moved, nil).Once()
	echoSwap(service, moved)

	ok, err := v.VerifyOTP(context.Background(), 2, "287082")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint64(2), hotpCounter(t, v, 2))

	ok, err = v.VerifyOTP(context.Background(), 2, "359152")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), hotpCounter(t, v, 2))
}

func TestNextHOTPRecordRemovedByAnotherWriter(t *testing.T) {
	v, service := loadedVault(t, otpRows())

	service.On("SwapKeychainExt", mock.Anything, mock.AnythingOfType("models.SwapKeychainExtParams")).
		Return(models.Keychain{}, pgx.ErrNoRows).Once()
	service.On("GetKeychainByID", mock.Anything, int32(2)).Return(models.Keychain{}, pgx.ErrNoRows).Once()

	_, err := v.NextHOTP(context.Background(), 2)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = v.Get(2)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestVerifyOTPExhaustedHotpCounter(t *testing.T) {
	rows := otpRows()
	rows[1].Ext = `{"type":"hotp","name":"bob","secret":"` + rfcSecret + `","issuer":"VPN","counter":18446744073709551615}`
	v, _ := loadedVault(t, rows)

	// no store expectation: a code at the last counter is refused without a write
	ok, err := v.VerifyOTP(context.Background(), 2, "094451")
	assert.ErrorIs(t, err, oath.ErrInvalidArgument)
	assert.False(t, ok)
}

func TestVerifyOTPTotp(t *testing.T) {
	v, _ := loadedVault(t, otpRows(), fixedClock(59))

	ok, err := v.VerifyOTP(context.Background(), 1, "287082")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.VerifyOTP(context.Background(), 1, "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.VerifyOTP(context.Background(), 1, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyOTPWindow(t *testing.T) {
	v, _ := loadedVault(t, otpRows(), WithHOTPTrials(2))

	// counter 9 is outside [1, 2]
	ok, err := v.VerifyOTP(context.Background(), 2, "520489")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAttachOTP(t *testing.T) {
	v, service := loadedVault(t, otpRows(), WithIssuer("KeyVault"), WithSecretBytes(10))
	echoSwap(service, otpRows()[2])

	r, err := v.AttachOTP(context.Background(), 3, credential.Credential{Type: "HOTP"})
	require.NoError(t, err)

	c, err := r.OTP()
	require.NoError(t, err)
	assert.Equal(t, "hotp", c.Type)
	assert.Equal(t, "carol", c.Name)
	assert.Equal(t, "KeyVault", c.Issuer)
	assert.Equal(t, uint64(1), c.Counter)

	key, err := oath.DecodeSecret(c.Secret)
	require.NoError(t, err)
	assert.Len(t, key, 10)
}

func TestAttachOTPInvalid(t *testing.T) {
	v, _ := loadedVault(t, otpRows())

	_, err := v.AttachOTP(context.Background(), 3, credential.Credential{Type: "motp", Issuer: "x"})
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)

	_, err = v.AttachOTP(context.Background(), 3, credential.Credential{Type: "totp", Issuer: "x", Secret: "!!!"})
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)
}

func TestDetachOTP(t *testing.T) {
	v, service := loadedVault(t, otpRows())
	echoSwap(service, otpRows()[0])

	require.NoError(t, v.DetachOTP(context.Background(), 1))
	r, err := v.Get(1)
	require.NoError(t, err)
	assert.False(t, r.HasOTP())

	assert.ErrorIs(t, v.DetachOTP(context.Background(), 3), ErrNoOTP)
}

func TestProvisioningURI(t *testing.T) {
	v, _ := loadedVault(t, otpRows())

	uri, err := v.ProvisioningURI(1)
	require.NoError(t, err)
	assert.Equal(t, "otpauth://totp/alice?secret="+rfcSecret+"&issuer=Mail", uri)

	uri, err = v.ProvisioningURI(2)
	require.NoError(t, err)
	assert.Contains(t, uri, "counter=1")

	_, err = v.ProvisioningURI(3)
	assert.ErrorIs(t, err, ErrNoOTP)
}
