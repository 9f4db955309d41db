// Command demo loads a roster and walks through a removal and restoration, printing the
// affected subordinates at each step.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"succession-go/internal/hierarchy"
	"succession-go/internal/model"
	"succession-go/internal/repository"
	"succession-go/pkg/log"
)

var (
	seedPath  string
	options   map[string]string
	watchID   int64
	removeID  int64
	logFormat string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through a removal and restoration on a roster",
		Long: `Loads a roster, prints the subordinates of the watched member, removes a member,
prints again, restores the member and prints a third time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			return runWalkthrough(cmd.OutOrStdout(), e, watchID, removeID)
		},
	}
	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the roster as an indented tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), e.Tree(), 0)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "configs/seed/members.json", "Roster file (JSON or YAML)")
	rootCmd.PersistentFlags().StringToStringVar(&options, "option", nil, "Engine option override, e.g. --option bigNumber=3")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
	rootCmd.Flags().Int64Var(&watchID, "watch", 5, "Member whose subordinates are printed")
	rootCmd.Flags().Int64Var(&removeID, "remove", 2, "Member to remove and restore")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		log.Init("warn", logFormat, "")
	}
	rootCmd.AddCommand(treeCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadEngine(ctx context.Context) (*hierarchy.Engine, error) {
	overrides := make(map[string]interface{}, len(options))
	for k, v := range options {
		overrides[k] = v
	}
	opts, err := hierarchy.MergeOptions(hierarchy.DefaultOptions(), overrides)
	if err != nil {
		return nil, err
	}
	members, err := repository.NewFileMemberSource(seedPath).LoadMembers(ctx)
	if err != nil {
		return nil, err
	}
	e := hierarchy.NewEngine(opts)
	e.Load(members)
	return e, nil
}

func runWalkthrough(w io.Writer, e *hierarchy.Engine, watch, remove int64) error {
	if err := printSubordinates(w, e, watch, "initial"); err != nil {
		return err
	}

	out, err := e.RemoveMember(remove)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "removed %d, team %v now reports to %d\n", remove, out.TeamIDs, out.SuccessorID)
	if err := printSubordinates(w, e, watch, "after removal"); err != nil {
		return err
	}

	if _, err := e.RestoreMember(remove); err != nil {
		return err
	}
	fmt.Fprintf(w, "restored %d\n", remove)
	return printSubordinates(w, e, watch, "after restoration")
}

func printSubordinates(w io.Writer, e *hierarchy.Engine, id int64, stage string) error {
	subs, err := e.Subordinates(id, false)
	if err != nil {
		return err
	}
	big, err := e.IsBigBoss(id)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(subs))
	for _, m := range subs {
		names = append(names, fmt.Sprintf("%s(%d)", m.Name, m.ID))
	}
	fmt.Fprintf(w, "[%s] subordinates of %d: %d [%s] big boss: %t\n", stage, id, len(subs), strings.Join(names, ", "), big)
	return nil
}

func printTree(w io.Writer, nodes []*model.MemberNode, depth int) {
	for _, n := range nodes {
		state := ""
		if !n.Active {
			state = " (removed)"
		}
		fmt.Fprintf(w, "%s%s #%d, %d%s\n", strings.Repeat("  ", depth), n.Name, n.ID, n.Age, state)
		printTree(w, n.Children, depth+1)
	}
}
