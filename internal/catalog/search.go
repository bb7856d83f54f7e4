package catalog

// SearchResult holds per-entity id matches. A nil slice means the
// entity either was not searched or had zero hits, so callers can
// distinguish "no results" from "not requested" per entity by which
// fields they asked for.
type SearchResult struct {
	Tracks    []int64
	Albums    []int64
	Artists   []int64
	Composers []int64
	Genres    []int64
	Playlists []int64
}

// Search runs a substring match (wildcarded both sides) over the given
// entity types, or all searchable types when entities is nil. Each
// entity's result is capped at limit rows.
func (s *Store) Search(text string, entities []EntityType, limit int64) (SearchResult, error) {
	if limit <= 0 {
		limit = 100
	}
	if entities == nil {
		entities = []EntityType{
			EntityTrack, EntityAlbum, EntityArtist,
			EntityComposer, EntityGenre, EntityPlaylist,
		}
	}

	var result SearchResult
	pattern := "%" + text + "%"

	for _, entity := range entities {
		var (
			query string
			dst   *[]int64
		)
		switch entity {
		case EntityTrack:
			query = `SELECT track_id FROM Tracks WHERE name LIKE ? LIMIT ?`
			dst = &result.Tracks
		case EntityAlbum:
			query = `SELECT album_id FROM Albums WHERE name LIKE ? LIMIT ?`
			dst = &result.Albums
		case EntityArtist:
			query = `SELECT artist_id FROM Artists WHERE name LIKE ? LIMIT ?`
			dst = &result.Artists
		case EntityComposer:
			query = `SELECT composer_id FROM Composers WHERE name LIKE ? LIMIT ?`
			dst = &result.Composers
		case EntityGenre:
			query = `SELECT genre_id FROM Genres WHERE name LIKE ? LIMIT ?`
			dst = &result.Genres
		case EntityPlaylist:
			query = `SELECT playlist_id FROM Playlists WHERE name LIKE ? LIMIT ?`
			dst = &result.Playlists
		default:
			// covers have no searchable name
			continue
		}

		ids, err := s.searchIDs(query, pattern, limit)
		if err != nil {
			return SearchResult{}, err
		}
		*dst = ids
	}

	return result, nil
}

// searchIDs returns nil (not an empty slice) for zero matches.
func (s *Store) searchIDs(query, pattern string, limit int64) ([]int64, error) {
	rows, err := s.db.Query(query, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
