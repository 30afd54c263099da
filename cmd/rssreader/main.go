// Command rssreader はユーザーとフィードを管理するRSSリーダーAPIサーバー。
//
//	rssreader [serve]            APIサーバーを起動する（デフォルト）
//	rssreader create-tables      テーブルを作成する
//	rssreader drop-tables        テーブルを削除する
//	rssreader healthcheck        /health に問い合わせる
//
// すべてのサブコマンドは -d/--database-url で接続先を上書きできる。
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/rssreader/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "rssreader: %v\n", err)
		os.Exit(1)
	}
}
