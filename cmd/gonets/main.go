package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/plan-systems/klog"

	"github.com/netgen-systems/gonets/gonets"
	"github.com/netgen-systems/gonets/libnets"
	"github.com/netgen-systems/gonets/libnets/catalog"
	"github.com/netgen-systems/gonets/libnets/cgd"
)

func main() {
	dbPath := flag.String("db", "", "catalog db path to import decomposed nets into")
	sbuShape := flag.String("sbu", "", "building block shape to probe slots with, e.g. \"5,0,1,4\"")
	sbuPG := flag.String("pg", "", "building block point group, e.g. \"D4h\"")
	coerce := flag.Bool("coerce", false, "accept slots on multiplicity match alone")

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()
	defer klog.Flush()

	pathname := flag.Arg(0)
	if pathname == "" {
		klog.Fatalf("usage: gonets [-db path] [-sbu shape -pg label [-coerce]] <nets.cgd>")
	}

	structures, errs := cgd.ReadFile(pathname, nil)
	for _, err := range errs {
		klog.Warningf("%v", err)
	}
	klog.Infof("%-5d nets read from %s (%d errors)", len(structures), pathname, len(errs))

	var cat gonets.Catalog
	if *dbPath != "" {
		var err error
		cat, err = catalog.OpenCatalog(gonets.CatalogOpts{DbPathName: *dbPath})
		if err != nil {
			klog.Fatalf("open catalog: %v", err)
		}
		defer cat.Close()
	}

	var sig *gonets.Signature
	if *sbuShape != "" {
		sig = &gonets.Signature{
			Shape: parseShape(*sbuShape),
			PG:    gonets.PointGroup(*sbuPG),
		}
	}

	decomposed := 0
	for name, s := range structures {
		topo, err := libnets.NewTopology(name, s, libnets.TopologyOpts{})
		if err != nil {
			klog.Warningf("decompose %s: %v", name, err)
			continue
		}
		decomposed++

		if cat != nil && cat.TryAddTopology(topo) {
			klog.V(2).Infof("added %s to catalog", name)
		}
		if sig != nil {
			slots := topo.CompatibleSlots(*sig, *coerce)
			if len(slots) > 0 {
				klog.Infof("%-8s %d compatible slots: %v", name, len(slots), slots)
			}
		} else {
			klog.Infof("%-8s %d nodes, shapes %v, point groups %v",
				name, topo.NodeCount(), topo.UniqueShapes(), topo.UniquePointGroups())
		}
	}
	klog.Infof("%-5d nets decomposed", decomposed)
}

func parseShape(expr string) gonets.Shape {
	parts := strings.Split(expr, ",")
	shape := make(gonets.Shape, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			klog.Fatalf("bad -sbu shape %q: %v", expr, err)
		}
		shape = append(shape, v)
	}
	return shape
}
