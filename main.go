package main

import (
	"os"

	"fjacquet/settle2qif/cmd/configcmd"
	"fjacquet/settle2qif/cmd/convert"
	"fjacquet/settle2qif/cmd/history"
	"fjacquet/settle2qif/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(history.Cmd)
	root.Cmd.AddCommand(configcmd.Cmd)
}

func main() {
	os.Exit(root.Execute())
}
