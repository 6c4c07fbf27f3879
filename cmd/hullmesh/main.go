// Command hullmesh inspects, repairs and evaluates surface meshes stored as
// binary STL files.
//
// Usage:
//
//	hullmesh info <mesh.stl>
//	hullmesh heal [-o out.stl] [-config file.toml] <mesh.stl>
//	hullmesh hydro [-config file.toml] <mesh.stl>
//	hullmesh convert [-tri] <in.stl> <out.stl>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hullform/hullmesh"
	"github.com/hullform/hullmesh/meshio"
)

var cli = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "heal":
		err = runHeal(os.Args[2:])
	case "hydro":
		err = runHydro(os.Args[2:])
	case "convert":
		err = runConvert(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		cli.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: hullmesh <command> [flags] <file>

commands:
  info     print mesh statistics
  heal     run all repair passes and write the result
  hydro    compute volume, center of gravity and inertia
  convert  rewrite an STL file, optionally triangulating quadrangles`)
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("info: expected one input file, got %d", fs.NArg())
	}
	m, err := meshio.ReadSTLFile(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Println(m)
	closed, err := m.IsClosed()
	if err != nil {
		return err
	}
	nb, _ := m.NumBoundaries()
	min, max, mean := m.EdgeLengthStats()
	fmt.Printf("closed: %v, boundaries: %d\n", closed, nb)
	fmt.Printf("surface area: %g\n", m.SurfaceArea())
	fmt.Printf("edge length min/max/mean: %g / %g / %g\n", min, max, mean)
	if closed {
		fmt.Printf("enclosed volume: %g\n", m.Volume())
	}
	return nil
}

func runHeal(args []string) error {
	fs := flag.NewFlagSet("heal", flag.ExitOnError)
	out := fs.String("o", "", "output file (default: overwrite input)")
	configPath := fs.String("config", "", "TOML config file")
	verbose := fs.Bool("v", true, "report repair progress")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("heal: expected one input file, got %d", fs.NArg())
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	hullmesh.SetVerbose(*verbose)
	m, err := meshio.ReadSTLFile(fs.Arg(0))
	if err != nil {
		return err
	}
	m.RemoveUnusedVertices()
	if err := m.RemoveDegenerateFaces(cfg.DegenerateRTol); err != nil {
		return err
	}
	m.MergeDuplicates(cfg.MergeTol)
	m.HealTriangles()
	if err := m.HealNormals(); err != nil {
		return err
	}
	path := fs.Arg(0)
	if *out != "" {
		path = *out
	}
	return meshio.WriteSTLFile(path, m)
}

func runHydro(args []string) error {
	fs := flag.NewFlagSet("hydro", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("hydro: expected one input file, got %d", fs.NArg())
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	m, err := meshio.ReadSTLFile(fs.Arg(0))
	if err != nil {
		return err
	}
	closed, err := m.IsClosed()
	if err != nil {
		return err
	}
	if !closed {
		cli.Warn("mesh is not closed, volume and plain inertia are unreliable")
	}
	fmt.Printf("volume: %g\n", m.Volume())
	plain := m.EvalPlainInertia(cfg.RhoMedium)
	fmt.Printf("plain inertia (rho=%g): %s\n", cfg.RhoMedium, plain)
	shell := m.EvalShellInertia(cfg.RhoShell, cfg.Thickness)
	fmt.Printf("shell inertia (rho=%g, t=%g): %s\n", cfg.RhoShell, cfg.Thickness, shell)
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	tri := fs.Bool("tri", false, "triangulate quadrangles")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("convert: expected input and output files, got %d arguments", fs.NArg())
	}
	m, err := meshio.ReadSTLFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if *tri {
		m.TriangulateQuadrangles()
	}
	return meshio.WriteSTLFile(fs.Arg(1), m)
}
