// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local lookup cache",
	Long: `Cache manages the SQLite database of past successful lookups. Only
resolved DOIs are cached; citations that came back "Not Found" are
retried on every run.`,
}

// --- info subcommand ---

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location, entry count, and last update",
	RunE:  runCacheInfo,
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	c, err := openLookupCache()
	if err != nil {
		return err
	}
	defer c.Close()

	info, err := c.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Cache location: %s\n", info.Path)
	fmt.Printf("Cached lookups: %d\n", info.Entries)
	if !info.Newest.IsZero() {
		fmt.Printf("Last updated:   %s\n", info.Newest.Format(time.RFC3339))
	}
	return nil
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached lookup",
	RunE:  runCacheClear,
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, err := openLookupCache()
	if err != nil {
		return err
	}
	defer c.Close()

	n, err := c.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d cached lookup(s)\n", n)
	return nil
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
