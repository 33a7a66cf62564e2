// Package model defines the core types shared by every execution engine.
//
//   - Point: a 2-D observation carrying its current cluster label
//   - Centroid: a cluster center together with its member count
//
// Points are owned by the caller. Engines rewrite only the Label field;
// coordinates are never written after load.
package model
