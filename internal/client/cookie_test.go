package client_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/Houeta/employee-gateway/internal/client"
	"github.com/Houeta/employee-gateway/internal/lib/logger/sl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookies(t *testing.T) {
	t.Parallel()

	reqURL, err := url.Parse("http://example.com/api/v1/employees")
	require.NoError(t, err)

	expectedCookies := []*http.Cookie{
		{
			Name:   "test",
			Value:  "testValue",
			Quoted: false,
		},
	}
	cookie := client.NewCookieJar(sl.NewDiscardLogger())
	cookie.SetCookies(reqURL, expectedCookies)

	actualCookie := cookie.Cookies(reqURL)
	assert.Equal(t, expectedCookies, actualCookie)
}

func TestSetCookies_MergeByName(t *testing.T) {
	t.Parallel()

	reqURL, err := url.Parse("https://example.com:8443/")
	require.NoError(t, err)

	jar := client.NewCookieJar(sl.NewDiscardLogger())
	jar.SetCookies(reqURL, []*http.Cookie{{Name: "session", Value: "1"}, {Name: "lang", Value: "en"}})
	jar.SetCookies(reqURL, []*http.Cookie{{Name: "session", Value: "2"}})

	values := map[string]string{}
	for _, c := range jar.Cookies(reqURL) {
		values[c.Name] = c.Value
	}

	assert.Equal(t, map[string]string{"session": "2", "lang": "en"}, values)
}

func TestSetCookies_ExpiredRemoved(t *testing.T) {
	t.Parallel()

	reqURL, err := url.Parse("http://example.com")
	require.NoError(t, err)

	jar := client.NewCookieJar(sl.NewDiscardLogger())
	jar.SetCookies(reqURL, []*http.Cookie{{Name: "session", Value: "1"}, {Name: "old", Value: "x"}})
	jar.SetCookies(reqURL, []*http.Cookie{
		{Name: "session", MaxAge: -1},
		{Name: "old", Value: "x", Expires: time.Now().Add(-time.Hour)},
	})

	assert.Empty(t, jar.Cookies(reqURL))
}

func TestCookies_UnknownHost(t *testing.T) {
	t.Parallel()

	reqURL, err := url.Parse("http://unknown.example.com")
	require.NoError(t, err)

	jar := client.NewCookieJar(sl.NewDiscardLogger())

	assert.Empty(t, jar.Cookies(reqURL))
}
