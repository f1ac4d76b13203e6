// Package approval holds offers of a freed court to the eligible queue head.
// An offer stays pending until an operator confirms who is playing or
// abandons it; the court is reserved meanwhile.
package approval
