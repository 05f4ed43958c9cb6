package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/andin0/vfsengine/internal/vfs"
)

func main() {
	app := cli.App{
		Name:        "vfsctl",
		Description: "a command line interface over a vfsengine volume",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a vfsengine YAML config file",
				EnvVars: []string{"VFS_CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:    "disk",
				Usage:   "path to the backing disk image, overrides the config file",
				EnvVars: []string{"VFS_DISK_PATH"},
			},
		},
		Commands: []*cli.Command{{
			Name:        "format",
			Description: "lay out a fresh filesystem image at the configured disk path",
			Action: withConfig(func(cfg vfs.Config, ctx *cli.Context) error {
				f, err := os.Create(cfg.DiskPath)
				if err != nil {
					return fmt.Errorf("creating `%s`: %w", cfg.DiskPath, err)
				}
				defer f.Close()

				volume, err := vfs.Format(
					f,
					vfs.Byte(cfg.BlockSize),
					vfs.DefaultInodeSize,
					vfs.Block(cfg.TotalBlocks),
					vfs.Ino(cfg.TotalInodes),
					vfs.SystemClock{},
				)
				if err != nil {
					return fmt.Errorf("formatting `%s`: %w", cfg.DiskPath, err)
				}
				defer volume.Close()
				return printSuperblock(volume)
			}),
		}, {
			Name:        "stat",
			Description: "dump the decoded superblock as JSON",
			Action: withVolume(func(volume *vfs.Volume, ctx *cli.Context) error {
				return printSuperblock(volume)
			}),
		}, {
			Name:        "alloc-block",
			Description: "allocate one free data block and print its id",
			Action: withVolume(func(volume *vfs.Volume, ctx *cli.Context) error {
				id, err := volume.AllocateBlock()
				if err != nil {
					return err
				}
				_, err = fmt.Printf("%d\n", id)
				return err
			}),
		}, {
			Name:        "free-block",
			Description: "return a data block to the free list",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "id", Required: true, Usage: "block id to free"},
			},
			Action: withVolume(func(volume *vfs.Volume, ctx *cli.Context) error {
				return volume.FreeBlock(vfs.Block(ctx.Int("id")))
			}),
		}, {
			Name:        "read",
			Description: "read bytes from an inode's data and print them to stdout",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "inode", Required: true, Usage: "inode id to read from"},
				&cli.IntFlag{Name: "offset", Usage: "byte offset to start reading at"},
				&cli.IntFlag{Name: "length", Required: true, Usage: "number of bytes to read"},
			},
			Action: withVolume(func(volume *vfs.Volume, ctx *cli.Context) error {
				inode, err := volume.ReadInode(vfs.Ino(ctx.Int("inode")))
				if err != nil {
					return fmt.Errorf("reading inode: %w", err)
				}
				buf := make([]byte, ctx.Int("length"))
				n, err := volume.Read(&inode, vfs.Byte(ctx.Int("offset")), buf)
				if err != nil {
					return fmt.Errorf("reading data: %w", err)
				}
				_, err = os.Stdout.Write(buf[:n])
				return err
			}),
		}, {
			Name:        "write",
			Description: "write stdin's bytes into an inode's data at an offset",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "inode", Required: true, Usage: "inode id to write to"},
				&cli.IntFlag{Name: "offset", Usage: "byte offset to start writing at"},
			},
			Action: withVolume(func(volume *vfs.Volume, ctx *cli.Context) error {
				inode, err := volume.ReadInode(vfs.Ino(ctx.Int("inode")))
				if err != nil {
					return fmt.Errorf("reading inode: %w", err)
				}
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				n, _, err := volume.Write(&inode, vfs.Byte(ctx.Int("offset")), data)
				if err != nil {
					return fmt.Errorf("writing data: %w", err)
				}
				_, err = fmt.Printf("wrote %d bytes\n", n)
				return err
			}),
		}, {
			Name:        "clear",
			Description: "reclaim every block owned by an inode and reset its size to zero",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "inode", Required: true, Usage: "inode id to clear"},
			},
			Action: withVolume(func(volume *vfs.Volume, ctx *cli.Context) error {
				inode, err := volume.ReadInode(vfs.Ino(ctx.Int("inode")))
				if err != nil {
					return fmt.Errorf("reading inode: %w", err)
				}
				return volume.Truncate(&inode)
			}),
		}},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func printSuperblock(volume *vfs.Volume) error {
	sb := volume.Superblock()
	data, err := json.MarshalIndent(sb, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling superblock to JSON: %w", err)
	}
	_, err = fmt.Printf("%s\n", data)
	return err
}

// withConfig resolves the --config/--disk flags into a vfs.Config before
// invoking f, the same dependency-injection shape the reference corpus's
// pgtokenstore CLI uses via withStore.
func withConfig(f func(vfs.Config, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		cfg, err := vfs.LoadConfig(ctx.String("config"))
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if disk := ctx.String("disk"); disk != "" {
			cfg.DiskPath = disk
		}
		return f(cfg, ctx)
	}
}

// withVolume resolves the config, opens the disk image read-write, loads
// the volume, and guarantees it is closed after f returns.
func withVolume(f func(*vfs.Volume, *cli.Context) error) cli.ActionFunc {
	return withConfig(func(cfg vfs.Config, ctx *cli.Context) error {
		file, err := os.OpenFile(cfg.DiskPath, os.O_RDWR, 0o644)
		if err != nil {
			return fmt.Errorf("opening `%s`: %w", cfg.DiskPath, err)
		}
		defer file.Close()

		volume, err := vfs.Load(file, vfs.SystemClock{})
		if err != nil {
			return fmt.Errorf("loading `%s`: %w", cfg.DiskPath, err)
		}
		return f(volume, ctx)
	})
}
