// Command mldata is a small consumer of the loader API: it downloads a
// named dataset into the cache, prints its info and optionally dumps
// samples or renders a scatter plot of two columns.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/Noofbiz/mldata/dataset"
	"github.com/Noofbiz/mldata/openml"
	"github.com/Noofbiz/mldata/uci"
	"github.com/Noofbiz/mldata/view"
)

func registry() map[string]*dataset.Descriptor {
	return map[string]*dataset.Descriptor{
		"uci/iris":            uci.Iris(),
		"uci/auto-mpg":        uci.AutoMPG(),
		"uci/optdigits-train": uci.OptDigitsTrain(),
		"uci/optdigits-test":  uci.OptDigitsTest(),
		"openml/iris":         openml.Iris(),
		"openml/auto-mpg":     openml.AutoMPG(),
	}
}

func main() {
	name := flag.String("dataset", "", "dataset to load (see -list)")
	list := flag.Bool("list", false, "list known datasets and exit")
	root := flag.String("root", "", "cache root override (default: platform user-data directory)")
	offline := flag.Bool("offline", false, "fail on cache miss instead of downloading")
	noVerify := flag.Bool("no-verify", false, "skip checksum verification")
	samples := flag.Int("samples", 0, "print the first N samples")
	scatter := flag.String("scatter", "", "render a scatter plot of two comma-separated columns, e.g. 'sepal_length,petal_length'")
	out := flag.String("out", "scatter.png", "output file for -scatter")
	flag.Parse()

	known := registry()

	if *list {
		names := make([]string, 0, len(known))
		for n := range known {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	desc, ok := known[*name]
	if !ok {
		log.Fatalf("unknown dataset %q (try -list)", *name)
	}

	loader, err := dataset.New(desc).
		DataRoot(*root).
		Download(!*offline).
		Verify(!*noVerify).
		Create()
	if err != nil {
		log.Fatalf("configure loader: %v", err)
	}

	info, err := loader.LoadInfo()
	if err != nil {
		log.Fatalf("load info: %v", err)
	}
	fmt.Printf("dataset: %s\n", info.Dataset)
	fmt.Printf("task:    %s\n", info.Task)
	fmt.Printf("columns: %d\n", len(info.Schema))
	fmt.Printf("cache:   %s\n", loader.Dir())

	if *samples <= 0 && *scatter == "" {
		return
	}

	table, err := loader.LoadData()
	if err != nil {
		log.Fatalf("load data: %v", err)
	}
	fmt.Printf("samples: %d\n", table.NumSamples())

	for i := 0; i < *samples && i < table.NumSamples(); i++ {
		features, target, err := table.Sample(i)
		if err != nil {
			log.Fatalf("sample %d: %v", i, err)
		}
		fmt.Printf("#%d features=%v target=%v\n", i, values(features), values(target))
	}

	if *scatter != "" {
		cols := strings.SplitN(*scatter, ",", 2)
		if len(cols) != 2 {
			log.Fatalf("-scatter wants two comma-separated column names, got %q", *scatter)
		}
		if err := view.Scatter(table, strings.TrimSpace(cols[0]), strings.TrimSpace(cols[1]), *out); err != nil {
			log.Fatalf("scatter: %v", err)
		}
		fmt.Printf("wrote %s\n", *out)
	}
}

func values(vs []dataset.Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}
