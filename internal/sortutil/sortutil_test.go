package sortutil

import "testing"

func TestStableTitleSortDoesNotMutateInput(t *testing.T) {
	in := []string{"Zebra", "Apple", "Mango"}
	out := StableTitleSort(in)
	if out[0] != "Apple" || out[1] != "Mango" || out[2] != "Zebra" {
		t.Fatalf("unexpected order: %v", out)
	}
	if in[0] != "Zebra" {
		t.Fatalf("input mutated: %v", in)
	}
}
