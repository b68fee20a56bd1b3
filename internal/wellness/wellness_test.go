package wellness

import "testing"

func TestCatalogKeys(t *testing.T) {
	want := []string{"meditacion", "lineas", "guias", "ejercicios"}
	all := All()
	if len(all) != len(want) {
		t.Fatalf("expected %d resources, got %d", len(want), len(all))
	}
	for i, k := range want {
		if all[i].Key != k {
			t.Errorf("resource %d: expected %q, got %q", i, k, all[i].Key)
		}
		if len(all[i].Steps) == 0 {
			t.Errorf("resource %q has no steps", k)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Title = "changed"
	if r, _ := Lookup("meditacion"); r.Title == "changed" {
		t.Error("All should not expose the catalog")
	}
}

func TestTitleOf(t *testing.T) {
	if got := TitleOf("guias"); got != "Guías emocionales" {
		t.Errorf("unexpected title %q", got)
	}
	if got := TitleOf("otro"); got != "otro" {
		t.Errorf("unknown key should pass through, got %q", got)
	}
}
