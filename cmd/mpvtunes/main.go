package main

import (
	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/cmd/mpvtunes/commands"
)

func main() {
	err := commands.NewRootCommand().Execute()
	if err != nil {
		logrus.Fatal(err)
	}
}
