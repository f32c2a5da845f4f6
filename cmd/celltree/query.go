package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Build the selected locator and run one query against it",
}

func parsePoint(vals []float64) geom.Point {
	return geom.Point{X: vals[0], Y: vals[1], Z: vals[2]}
}

var (
	queryPoint    []float64
	queryP1       []float64
	queryP2       []float64
	queryNormal   []float64
	queryRadius   float64
	queryTol      float64
	queryBoxMin   []float64
	queryBoxMax   []float64
)

func init() {
	findCellCmd.Flags().Float64SliceVarP(&queryPoint, "point", "p", nil, "x,y,z (required)")
	findCellCmd.MarkFlagRequired("point")

	intersectCmd.Flags().Float64SliceVar(&queryP1, "p1", nil, "segment start x,y,z (required)")
	intersectCmd.Flags().Float64SliceVar(&queryP2, "p2", nil, "segment end x,y,z (required)")
	intersectCmd.Flags().Float64Var(&queryTol, "tol", 0.001, "geometric tolerance")
	intersectCmd.Flags().Bool("all", false, "return every intersection sorted by t, instead of just the nearest")
	intersectCmd.MarkFlagRequired("p1")
	intersectCmd.MarkFlagRequired("p2")

	closestCmd.Flags().Float64SliceVarP(&queryPoint, "point", "p", nil, "x,y,z (required)")
	closestCmd.Flags().Float64Var(&queryRadius, "radius", 1.0, "search radius")
	closestCmd.MarkFlagRequired("point")

	withinBoundsCmd.Flags().Float64SliceVar(&queryBoxMin, "min", nil, "box min corner x,y,z (required)")
	withinBoundsCmd.Flags().Float64SliceVar(&queryBoxMax, "max", nil, "box max corner x,y,z (required)")
	withinBoundsCmd.MarkFlagRequired("min")
	withinBoundsCmd.MarkFlagRequired("max")

	alongLineCmd.Flags().Float64SliceVar(&queryP1, "p1", nil, "segment start x,y,z (required)")
	alongLineCmd.Flags().Float64SliceVar(&queryP2, "p2", nil, "segment end x,y,z (required)")
	alongLineCmd.Flags().Float64Var(&queryTol, "tol", 0.001, "geometric tolerance")
	alongLineCmd.MarkFlagRequired("p1")
	alongLineCmd.MarkFlagRequired("p2")

	alongPlaneCmd.Flags().Float64SliceVar(&queryP1, "origin", nil, "plane origin x,y,z (required)")
	alongPlaneCmd.Flags().Float64SliceVar(&queryNormal, "normal", nil, "plane normal x,y,z (required)")
	alongPlaneCmd.Flags().Float64Var(&queryTol, "tol", 0.001, "geometric tolerance")
	alongPlaneCmd.MarkFlagRequired("origin")
	alongPlaneCmd.MarkFlagRequired("normal")

	queryCmd.AddCommand(findCellCmd, intersectCmd, closestCmd, withinBoundsCmd, alongLineCmd, alongPlaneCmd)
}

var findCellCmd = &cobra.Command{
	Use:   "find-cell",
	Short: "FindCell(x): locate the cell containing a point",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		id, res, ok := s.loc.FindCell(parsePoint(queryPoint))
		if !ok {
			fmt.Println("no cell")
			return nil
		}
		fmt.Printf("cell=%d sub_id=%d pcoords=%v weights=%v\n", id, res.SubID, res.PCoords, res.Weights)
		return nil
	},
}

var intersectCmd = &cobra.Command{
	Use:   "intersect",
	Short: "IntersectWithLine(p1, p2): nearest (or, with --all, every) intersection of a segment with the mesh",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		p1, p2 := parsePoint(queryP1), parsePoint(queryP2)
		all, _ := cmd.Flags().GetBool("all")
		if all {
			hits := s.loc.IntersectWithLineAll(p1, p2, queryTol)
			if len(hits) == 0 {
				fmt.Println("no hits")
				return nil
			}
			for _, h := range hits {
				printHit(h)
			}
			return nil
		}
		h, ok := s.loc.IntersectWithLine(p1, p2, queryTol)
		if !ok {
			fmt.Println("no hit")
			return nil
		}
		printHit(h)
		return nil
	},
}

var closestCmd = &cobra.Command{
	Use:   "closest-point",
	Short: "FindClosestPointWithinRadius(x, radius): nearest cell surface point within a radius",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		h, ok := s.loc.FindClosestPointWithinRadius(parsePoint(queryPoint), queryRadius)
		if !ok {
			fmt.Println("no cell within radius")
			return nil
		}
		printHit(h)
		return nil
	},
}

var withinBoundsCmd = &cobra.Command{
	Use:   "within-bounds",
	Short: "FindCellsWithinBounds(box): cells overlapping an axis-aligned box (octree: every cell in the covered leaf octants)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		lo, hi := parsePoint(queryBoxMin), parsePoint(queryBoxMax)
		box := geom.Bounds{MinX: lo.X, MaxX: hi.X, MinY: lo.Y, MaxY: hi.Y, MinZ: lo.Z, MaxZ: hi.Z}
		printCellIDs(s.loc.FindCellsWithinBounds(box))
		return nil
	},
}

var alongLineCmd = &cobra.Command{
	Use:   "along-line",
	Short: "FindCellsAlongLine(p1, p2): every cell crossed by a segment",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		printCellIDs(s.loc.FindCellsAlongLine(parsePoint(queryP1), parsePoint(queryP2), queryTol))
		return nil
	},
}

var alongPlaneCmd = &cobra.Command{
	Use:   "along-plane",
	Short: "FindCellsAlongPlane(origin, normal): every cell crossing an infinite plane",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		printCellIDs(s.loc.FindCellsAlongPlane(parsePoint(queryP1), parsePoint(queryNormal), queryTol))
		return nil
	},
}

func printHit(h locator.Hit) {
	fmt.Printf("cell=%d t=%.6f x=(%.6f,%.6f,%.6f) sub_id=%d dist2=%.6f\n",
		h.CellID, h.T, h.X.X, h.X.Y, h.X.Z, h.SubID, h.Dist2)
}

func printCellIDs(ids []locator.CellID) {
	fmt.Printf("%d cells: %v\n", len(ids), ids)
}
