// Package props reads and writes documents as Java style properties,
// one line per scalar keyed by its path:
//
//	test1 = wow
//	sub[0]/test1 = wow1
//	sub[1]/test1 = wow2
//
// Reading rebuilds the tree with ir.FindOrCreateNode, so the
// structure is recovered but every value comes back as a string.
package props
