package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"libraryapi/internal/lending"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type lendingService interface {
	IssueBook(ctx context.Context, bookID, memberID int64, loanPeriodDays int) (lending.Transaction, error)
	ReturnBook(ctx context.Context, transactionID int64) (lending.Transaction, error)
	ListActive(ctx context.Context) ([]lending.Transaction, error)
	ListOverdue(ctx context.Context) ([]lending.Transaction, error)
}

type bookService interface {
	IsAvailable(ctx context.Context, id int64) (bool, error)
}

type deps struct {
	lending         lendingService
	books           bookService
	defaultLoanDays int
}

type opener func(ctx context.Context) (deps, func(), error)

// cli opens its dependencies lazily so that --help and flag errors never
// touch the database.
type cli struct {
	open    opener
	d       deps
	closeFn func()
}

func (c *cli) deps() deps {
	return c.d
}

// Close releases whatever open acquired. Safe to call more than once.
func (c *cli) Close() {
	if c.closeFn != nil {
		c.closeFn()
		c.closeFn = nil
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "libctl",
		Short:         "Issue and return library books",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			c.d, c.closeFn, err = c.open(cmd.Context())
			return err
		},
	}

	root.AddCommand(
		newIssueCmd(c.deps),
		newReturnCmd(c.deps),
		newActiveCmd(c.deps),
		newOverdueCmd(c.deps),
		newAvailabilityCmd(c.deps),
	)
	return root
}

func newIssueCmd(get func() deps) *cobra.Command {
	var bookID, memberID int64
	var days int

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Lend a book to a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := get()
			if !cmd.Flags().Changed("days") {
				days = d.defaultLoanDays
			}
			t, err := d.lending.IssueBook(cmd.Context(), bookID, memberID, days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().Int64Var(&bookID, "book", 0, "book id")
	cmd.Flags().Int64Var(&memberID, "member", 0, "member id")
	cmd.Flags().IntVar(&days, "days", 14, "loan period in days")
	_ = cmd.MarkFlagRequired("book")
	_ = cmd.MarkFlagRequired("member")
	return cmd
}

func newReturnCmd(get func() deps) *cobra.Command {
	return &cobra.Command{
		Use:   "return <transaction-id>",
		Short: "Return a lent book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := get().lending.ReturnBook(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	}
}

func newActiveCmd(get func() deps) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "List books currently out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ts, err := get().lending.ListActive(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ts)
		},
	}
}

func newOverdueCmd(get func() deps) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List loans past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ts, err := get().lending.ListOverdue(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ts)
		},
	}
}

func newAvailabilityCmd(get func() deps) *cobra.Command {
	return &cobra.Command{
		Use:   "availability <book-id>",
		Short: "Check whether a book has a copy on the shelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := get().books.IsAvailable(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"book_id": id, "available": ok})
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
