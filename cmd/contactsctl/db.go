package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	sqliteadapter "github.com/ericfisherdev/contacts/internal/adapter/driven/sqlite"
)

// executor builds a Query/Command Executor over the --db file.
func (r *Runner) executor(cmd *cli.Command) *sqliteadapter.Executor {
	var opts []sqliteadapter.FactoryOption
	if cmd.Bool("strict-init") {
		opts = append(opts, sqliteadapter.WithStrictInit())
	}
	factory := sqliteadapter.NewFactory(cmd.String("db"), r.slogger(), opts...)
	return sqliteadapter.NewExecutor(factory, r.slogger())
}

// statementArgs splits the positional arguments into a statement and its
// bind parameters.
func statementArgs(cmd *cli.Command) (string, []any, error) {
	args := cmd.Args().Slice()
	if len(args) == 0 || args[0] == "" {
		return "", nil, fmt.Errorf("a SQL statement is required")
	}
	params := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		params = append(params, a)
	}
	return args[0], params, nil
}

// Query runs a statement and prints the rows as a JSON array.
func (r *Runner) Query(ctx context.Context, cmd *cli.Command) error {
	statement, params, err := statementArgs(cmd)
	if err != nil {
		return err
	}

	r.logger.Debug("running query", "db", cmd.String("db"), "statement", statement)
	rows, err := r.executor(cmd).Query(ctx, statement, params...)
	if err != nil {
		return err
	}
	r.logger.Debug("query finished", "rows", len(rows))

	return r.writeJSON(rows)
}

// Exec runs a statement (or script) and prints the command result.
func (r *Runner) Exec(ctx context.Context, cmd *cli.Command) error {
	statement, params, err := statementArgs(cmd)
	if err != nil {
		return err
	}

	r.logger.Debug("running command", "db", cmd.String("db"), "statement", statement)
	result, err := r.executor(cmd).Exec(ctx, statement, params...)
	if err != nil {
		return err
	}

	return r.writePlainln("%s", result)
}

func queryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Run a SQL query and print the rows as JSON",
		ArgsUsage: "STATEMENT [PARAM...]",
		Action:    r.Query,
	}
}

func execCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Run a SQL statement or script that returns no rows",
		ArgsUsage: "STATEMENT [PARAM...]",
		Action:    r.Exec,
	}
}
