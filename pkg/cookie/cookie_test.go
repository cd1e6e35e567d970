package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/pkg/cookie"
)

const testSecret = "visitor-cookie-secret-32-bytes!!"

// roundTrip copies the cookies written to rec into a fresh request.
func roundTrip(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestPlain(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecure(true))

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "tz")
		assert.ErrorIs(t, err, cookie.ErrNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		m.Set(rec, "tz", "Europe/Istanbul", 3600)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.True(t, cookies[0].Secure)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
		assert.Equal(t, "/", cookies[0].Path)

		v, err := m.Get(roundTrip(rec), "tz")
		require.NoError(t, err)
		assert.Equal(t, "Europe/Istanbul", v)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		m.Delete(rec, "tz")
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Negative(t, cookies[0].MaxAge)
	})
}

func TestSigned(t *testing.T) {
	t.Parallel()

	t.Run("without secret", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithSecret("short"))
		assert.False(t, m.CanSign())
		assert.ErrorIs(t, m.SetSigned(httptest.NewRecorder(), "vid", "x", 0), cookie.ErrNoSecret)
		_, err := m.GetSigned(httptest.NewRequest(http.MethodGet, "/", nil), "vid")
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithSecret(testSecret))
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "vid", "0b6f6c1e-5d2c-4f59-9b9e-2d4c7f1a0e11", 3600))

		v, err := m.GetSigned(roundTrip(rec), "vid")
		require.NoError(t, err)
		assert.Equal(t, "0b6f6c1e-5d2c-4f59-9b9e-2d4c7f1a0e11", v)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithSecret(testSecret))
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "vid", "alice", 0))

		c := rec.Result().Cookies()[0]
		value, sig, _ := strings.Cut(c.Value, ".")
		c.Value = strings.ToLower(value) + "x." + sig

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)
		_, err := m.GetSigned(r, "vid")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("other secret", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, cookie.New(cookie.WithSecret(testSecret)).SetSigned(rec, "vid", "alice", 0))

		other := cookie.New(cookie.WithSecret(strings.Repeat("z", 32)))
		_, err := other.GetSigned(roundTrip(rec), "vid")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("unsigned value", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithSecret(testSecret))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "vid", Value: "plain"})
		_, err := m.GetSigned(r, "vid")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})
}

func TestValidateSecret(t *testing.T) {
	t.Parallel()

	assert.NoError(t, cookie.ValidateSecret(""))
	assert.NoError(t, cookie.ValidateSecret(testSecret))
	assert.ErrorIs(t, cookie.ValidateSecret("too-short"), cookie.ErrBadSecret)
}
