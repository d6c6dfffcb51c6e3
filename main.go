package main

import "github.com/backofficehq/admin-backend/cmd"

func main() {
	cmd.Execute()
}
