// Package clientcmd implements the CLI client subcommands and the small TCP
// client they share with tests.
package clientcmd
