package utils

// UniqueStrings removes duplicate and empty values, keeping first-seen order.
func UniqueStrings(slice []string) []string {
	keys := make(map[string]struct{}, len(slice))
	list := []string{}
	for _, entry := range slice {
		if entry == "" {
			continue
		}
		if _, seen := keys[entry]; !seen {
			keys[entry] = struct{}{}
			list = append(list, entry)
		}
	}
	return list
}
