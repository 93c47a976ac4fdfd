package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/beatmap-downloader/internal/app"
	"github.com/handiism/beatmap-downloader/internal/playlist"
)

func newKeyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "key <key>...",
		Short:   "Install the latest version of each beatmap key",
		Example: "  beatmap-dl key 1a2b 25f",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), func(ctx context.Context, a *app.App) error {
				failed := 0
				for _, key := range args {
					if ctx.Err() != nil {
						break
					}
					hash := a.Manager.DownloadByKey(ctx, key, progressPrinter(key))
					if hash == "" {
						failed++
						continue
					}
					fmt.Printf("%s → %s\n", key, hash)
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d downloads failed", failed, len(args))
				}
				return nil
			})
		},
	}
}

func newHashCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <hash>...",
		Short: "Install the exact level version for each hash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), func(ctx context.Context, a *app.App) error {
				for _, hash := range args {
					if ctx.Err() != nil {
						break
					}
					a.Manager.DownloadByHash(ctx, hash, progressPrinter(hash))
				}
				return nil
			})
		},
	}
}

func newURLCmd(opts *rootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "url <url>",
		Short: "Install a level archive from a direct URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			return opts.run(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Manager.DownloadByCustomURL(ctx, args[0], name)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Directory name for the level")
	return cmd
}

func newPlaylistCmd(opts *rootOptions) *cobra.Command {
	var (
		listOnly    bool
		saveMissing string
	)

	cmd := &cobra.Command{
		Use:   "playlist <file.bplist>",
		Short: "Install every level of a playlist that is not installed yet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := playlist.Load(args[0])
			if err != nil {
				return err
			}

			return opts.run(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if listOnly || saveMissing != "" {
					missing := pl.Missing(a.Index)
					for _, song := range missing {
						fmt.Println(song)
					}
					if saveMissing == "" {
						return nil
					}
					out := &playlist.Playlist{Title: pl.Title + " (missing)", Author: pl.Author, Songs: missing}
					path := filepath.Join(saveMissing, out.FileName())
					if err := out.Save(path); err != nil {
						return err
					}
					fmt.Printf("Saved %d songs to %s\n", len(missing), path)
					return nil
				}

				syncer := a.Syncer()
				syncer.OnSong = func(song playlist.Song) {
					fmt.Printf("› Queued %s\n", song)
				}

				report, err := syncer.Sync(ctx, pl)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d songs, %d already installed, %d downloaded\n",
					pl.Title, report.Total, report.Installed, report.Attempted)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&listOnly, "missing", false, "Only list songs that are not installed")
	cmd.Flags().StringVar(&saveMissing, "save-missing", "", "Write the songs that are not installed to a playlist in this directory")
	return cmd
}

// progressPrinter renders a single-line progress indicator for id.
func progressPrinter(id string) func(float64) {
	last := -1
	return func(p float64) {
		pct := int(p * 100)
		if pct == last {
			return
		}
		last = pct
		fmt.Printf("\r  %s %3d%%", id, pct)
		if pct >= 100 {
			fmt.Println()
		}
	}
}
