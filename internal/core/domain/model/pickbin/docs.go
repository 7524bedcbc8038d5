// Package pickbin implements the staging-tote aggregate that hands picked
// units from pickers to packers. A bin is created once per completed pick
// task, holds one line per SKU regardless of how many locations the units
// came from, and tracks scan-verified quantities with clamped, monotone
// increments so duplicate scans from a nervous packer stay harmless.
package pickbin
