package main

import "github.com/frahmantamala/voucher-management/cmd"

func main() {
	cmd.Execute()
}
