package models

// SeedTimestamp is the fixed timestamp of the seed note, so Seed is deterministic.
const SeedTimestamp = "2024-01-01T00:00:00.000Z"

const seedVectorContent = `A vector $\vec{v}$ in $\mathbb{R}^n$ is an $n$-tuple.

$$ \vec{v} = \begin{bmatrix} v_1 \\ v_2 \\ \vdots \\ v_n \end{bmatrix} $$`

// Seed returns the built-in document used when nothing has been persisted yet:
// one group with a sample note and one empty group.
// Each call returns a fresh value that shares nothing with earlier calls.
func Seed() DataModel {
	return DataModel{
		Groups: []Group{
			{
				ID:   "g-1",
				Name: "Linear Algebra",
				Notes: []Note{
					{
						ID:        "n-1",
						Title:     "Introduction to Vectors",
						Content:   seedVectorContent,
						Timestamp: SeedTimestamp,
					},
				},
			},
			{
				ID:    "g-2",
				Name:  "Calculus",
				Notes: []Note{},
			},
		},
	}
}
