// Package dbscan implements density-based clustering: DBSCAN and OPTICS,
// with two strategies for extracting flat clusters from an OPTICS
// reachability plot.
//
// Every training run builds a dense pairwise distance cache once, then
// either expands DBSCAN clusters from core points or produces an OPTICS
// ordering with reachability and core distances. Points are neighbors iff
// their distance is strictly less than Eps.
//
// Basic usage:
//
//	cfg := dbscan.DefaultConfig()
//	cfg.Eps = 0.5
//	cfg.MinPts = 4
//	e := dbscan.New(cfg)
//	if err := e.Train(samples); err != nil {
//		// only structurally invalid input (ragged samples, bad Mode) errors
//	}
//	labels := e.Assignments() // cluster id per point, 0 = noise
//	resp, err := e.Test(query) // resp[k] is the membership in cluster k
//
// # Modes
//
//	cfg.Mode = dbscan.ModeDBSCAN           // classic DBSCAN
//	cfg.Mode = dbscan.ModeOPTICSThreshold  // OPTICS, cut where reachability > Depth
//	cfg.Mode = dbscan.ModeOPTICSValleyFill // OPTICS, pits at least Depth deep
//
// In OPTICS modes Ordering, Reachability and CoreDistances expose the
// reachability plot, and Extract re-cuts it with a different depth without
// retraining.
package dbscan
