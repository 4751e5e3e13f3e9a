package mapview

import "fmt"

func errUnknownOverlay(id string) error {
	return fmt.Errorf("mapview: unknown overlay %q", id)
}
