/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/nakachan-ing/dolist/cmd"

func main() {
	cmd.Execute()
}
