/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/store"
)

// resolveItemID accepts a full id or a unique prefix and returns the full id.
func resolveItemID(s *store.SQLiteStore, ref string) (string, error) {
	if _, err := s.GetItem(ref); err == nil {
		return ref, nil
	}

	items, err := s.ListItems(store.ItemFilter{})
	if err != nil {
		return "", err
	}
	var matches []models.Item
	for _, item := range items {
		if strings.HasPrefix(item.ID, ref) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no item matches %q", ref)
	case 1:
		return matches[0].ID, nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches); use a longer prefix", ref, len(matches))
	}
}
