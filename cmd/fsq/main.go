package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"runtime/pprof"

	"github.com/BurntSushi/toml"

	"github.com/SteveLauC/fs"
)

type config struct {
	DirBufferSizeV int  `toml:"dir_buffer_size"`
	LongListingV   bool `toml:"long_listing"`
}

func defaultConfig() config {
	return config{
		DirBufferSizeV: 1024,
		LongListingV:   false,
	}
}

func loadConfig(p string) (config, error) {
	cfg := defaultConfig()
	f, err := os.Open(p)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	_, err = toml.NewDecoder(f).Decode(&cfg)
	return cfg, err
}

func cmdStat(pathname string) error {
	meta, err := fs.Lstat(pathname)
	if err != nil {
		return err
	}

	fmt.Printf("  File: %s\n", pathname)
	fmt.Printf("  Size: %-15d Blocks: %-10d IO Block: %d\n",
		meta.Len(), meta.Blocks(), meta.BlockSize())
	devMajor, devMinor := meta.Dev()
	fmt.Printf("Device: %d:%-12d Inode: %-11d Links: %d\n",
		devMajor, devMinor, meta.Ino(), meta.Nlink())
	fmt.Printf("  Type: %s\n", meta.FileType())
	fmt.Printf("Access: %04o  Uid: %d  Gid: %d\n",
		meta.Permissions().Mode(), meta.OwnerUID(), meta.OwnerGID())
	fmt.Printf("Modify: %s\n", meta.Modified())
	if created, err := meta.Created(); err == nil {
		fmt.Printf(" Birth: %s\n", created)
	}
	return nil
}

func cmdLs(pathname string, cfg config) error {
	dir, err := fs.OpenDirBuffer(pathname, cfg.DirBufferSizeV)
	if err != nil {
		return err
	}
	defer dir.Close()

	for {
		entry, err := dir.Read()
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		if cfg.LongListingV {
			meta, err := entry.Metadata()
			if err != nil {
				return err
			}
			fmt.Printf("%04o %10d %s %s\n",
				meta.Permissions().Mode(), meta.Len(),
				entry.FileType(), entry.FileName())
		} else {
			fmt.Println(entry.FileName())
		}
	}
}

func cmdResolve(pathname string) error {
	resolved, err := fs.Canonicalize(pathname)
	if err != nil {
		return err
	}
	fmt.Println(resolved)
	return nil
}

func usage() {
	fmt.Printf("usage: %s [options] stat|ls|resolve PATH\n", path.Base(os.Args[0]))
	fmt.Printf("\noptions:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	cpuprofile := flag.String("profile", "", "record cpu profile.")
	configpath := flag.String("config", "", "read defaults from a TOML file.")
	long := flag.Bool("l", false, "long listing for ls.")
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
	}

	if *cpuprofile != "" {
		fmt.Printf("Writing cpu profile to %s\n", *cpuprofile)
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	cfg := defaultConfig()
	if *configpath != "" {
		var err error
		cfg, err = loadConfig(*configpath)
		if err != nil {
			log.Fatalf("config %s: %v", *configpath, err)
		}
	}
	if *long {
		cfg.LongListingV = true
	}

	command := flag.Arg(0)
	pathname := flag.Arg(1)

	var err error
	switch command {
	case "stat":
		err = cmdStat(pathname)
	case "ls":
		err = cmdLs(pathname, cfg)
	case "resolve":
		err = cmdResolve(pathname)
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("%s %s: %v", command, pathname, err)
	}
}
