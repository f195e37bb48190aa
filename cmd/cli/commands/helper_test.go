package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/motorepair/admin/internal/app"
	"github.com/motorepair/admin/internal/services"
	"github.com/motorepair/admin/test"
)

// setupTestShop wires the commands to an in-memory database and cache
func setupTestShop(t *testing.T) *test.TestEnvironment {
	env := test.NewTestEnvironment(t)

	original := shop
	shop = app.NewWithDB(env.DB, env.Store, services.DefaultCacheTTLs(), env.Now)
	t.Cleanup(func() {
		shop = original
	})
	return env
}

// executeCommand runs the root command with args and returns its output
func executeCommand(args ...string) (string, error) {
	resetFlags(RootCmd)

	outputBuf := &bytes.Buffer{}
	RootCmd.SetOut(outputBuf)
	RootCmd.SetErr(outputBuf)
	RootCmd.SetArgs(args)

	err := RootCmd.Execute()
	return outputBuf.String(), err
}

// resetFlags restores every flag of cmd and its children to its default, since the
// command tree is shared between tests
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}
