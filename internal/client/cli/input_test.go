package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hvlab/settlement/internal/ledger"
)

func TestGetSimpleText(t *testing.T) {
	silencePrintln(t)
	in := bufio.NewReader(strings.NewReader("  Riverside 101  \n"))
	got, err := GetSimpleText(in, "Project?")
	require.NoError(t, err)
	require.Equal(t, "Riverside 101", got)
}

func TestGetSimpleTextEOFKeepsPartialLine(t *testing.T) {
	silencePrintln(t)
	in := bufio.NewReader(strings.NewReader("lastline"))
	got, err := GetSimpleText(in, "Project?")
	require.NoError(t, err)
	require.Equal(t, "lastline", got)
}

func TestGetMultilineStopsOnEmptyLine(t *testing.T) {
	silencePrintln(t)
	in := bufio.NewReader(strings.NewReader("north wall\nsecond batch\n\nignored\n"))
	got, err := GetMultiline(in, "Memo")
	require.NoError(t, err)
	require.Equal(t, "north wall\nsecond batch", got)
}

func TestGetPasswordError(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }

	_, err := GetPassword("pw: ")
	require.Error(t, err)
}

func TestDeleteGatePassphrase(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	old := readPassword
	defer func() { readPassword = old }()

	gate := newDeleteGate(&App{}, string(hash))

	readPassword = func(int) ([]byte, error) { return []byte("open sesame"), nil }
	require.NoError(t, gate.AuthorizeProjectDelete(context.Background(), "Riverside 101"))

	readPassword = func(int) ([]byte, error) { return []byte("wrong"), nil }
	require.ErrorIs(t, gate.AuthorizeProjectDelete(context.Background(), "Riverside 101"),
		ledger.ErrNotAuthorized)
}

func TestDeleteGateRetypeName(t *testing.T) {
	silencePrintln(t)

	app := &App{reader: bufio.NewReader(strings.NewReader("Riverside 101\nWrong Name\n"))}
	gate := newDeleteGate(app, "")

	require.NoError(t, gate.AuthorizeProjectDelete(context.Background(), "Riverside 101"))
	require.ErrorIs(t, gate.AuthorizeProjectDelete(context.Background(), "Riverside 101"),
		ledger.ErrNotAuthorized)
}

func TestShortID(t *testing.T) {
	require.Equal(t, "3f2504e0", shortID("3f2504e0-4f89-11d3-9a0c-0305e82c3301"))
	require.Equal(t, "plain", shortID("plain"))
}
