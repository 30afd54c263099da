package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandCreateTables はスキーマを作成することを示す。
	CommandCreateTables Command = "create-tables"
	// CommandDropTables はスキーマを削除することを示す。
	CommandDropTables Command = "drop-tables"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// Options はコマンドライン引数の解析結果。
type Options struct {
	Command Command
	// 空の場合は設定（環境変数）の値を使う
	DatabaseURL string
}

// ErrUnknownCommand はサポート外のサブコマンドが指定された場合に返される。
var ErrUnknownCommand = errors.New("unknown command")

func newFlagSet(opts *Options) *flag.FlagSet {
	fs := flag.NewFlagSet("rssreader", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.DatabaseURL, "d", "", "database URL")
	fs.StringVar(&opts.DatabaseURL, "database-url", "", "database URL")
	return fs
}

// ParseArgs はコマンドライン引数からサブコマンドとフラグを解析する。
// 引数が空の場合はCommandServeを返す。
// フラグはサブコマンドの前後どちらにも置ける（例: "-d URL create-tables" と "create-tables -d URL"）。
func ParseArgs(args []string) (Options, error) {
	opts := Options{Command: CommandServe}
	fs := newFlagSet(&opts)

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("failed to parse arguments: %w", err)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return opts, nil
	}

	switch Command(rest[0]) {
	case CommandServe, CommandCreateTables, CommandDropTables, CommandHealthcheck:
		opts.Command = Command(rest[0])
	default:
		return Options{}, fmt.Errorf("%w: %q", ErrUnknownCommand, rest[0])
	}

	if err := fs.Parse(rest[1:]); err != nil {
		return Options{}, fmt.Errorf("failed to parse arguments: %w", err)
	}
	if extra := fs.Args(); len(extra) > 0 {
		return Options{}, fmt.Errorf("unexpected argument: %q", extra[0])
	}

	return opts, nil
}
