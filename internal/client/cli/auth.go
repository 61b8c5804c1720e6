package cli

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hvlab/settlement/internal/ledger"
)

// deleteGate authorizes project deletion. With a configured bcrypt hash the
// operator must enter the matching passphrase; without one they must retype
// the project name. Either way a slip of the finger cannot drop a project.
type deleteGate struct {
	app  *App
	hash string
}

func newDeleteGate(a *App, hash string) *deleteGate {
	return &deleteGate{app: a, hash: hash}
}

func (g *deleteGate) AuthorizeProjectDelete(_ context.Context, project string) error {
	if g.hash != "" {
		pw, err := GetPassword(fmt.Sprintf("Passphrase to delete %q: ", project))
		if err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(g.hash), pw) != nil {
			return ledger.ErrNotAuthorized
		}
		return nil
	}

	typed, err := GetSimpleText(g.app.reader, fmt.Sprintf("Type the project name %q to confirm deletion", project))
	if err != nil {
		return err
	}
	if typed != project {
		return ledger.ErrNotAuthorized
	}
	return nil
}
