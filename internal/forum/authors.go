package forum

// ResolveAuthorNames batch-resolves user ids to display names. Ids are
// deduplicated and zero ids dropped; an empty result set issues no query at
// all. Each resolved id maps to displayName, falling back to username, then
// "Unknown".
func ResolveAuthorNames(store Store, userIDs []uint) (map[uint]string, error) {
	seen := make(map[uint]bool, len(userIDs))
	unique := make([]uint, 0, len(userIDs))
	for _, id := range userIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	names := make(map[uint]string, len(unique))
	if len(unique) == 0 {
		return names, nil
	}

	users, err := store.GetUsers(unique)
	if err != nil {
		return nil, err
	}
	for i := range users {
		names[users[i].ID] = users[i].Name()
	}
	for _, id := range unique {
		if _, ok := names[id]; !ok {
			names[id] = "Unknown"
		}
	}
	return names, nil
}
