package catalog

import (
	"strings"
)

// SortKey identifies one ordering criterion. Direction is carried
// separately in Sort so every key has a descending variant.
type SortKey int

const (
	ByName SortKey = iota
	ByReleaseDate
	ByAddedDate
	ByModifiedDate
	ByArtist
	ByAlbumArtist
	ByComposer
	ByAlbum
	ByGenre
	BySize
	ByTime
)

func (k SortKey) String() string {
	switch k {
	case ByName:
		return "name"
	case ByReleaseDate:
		return "release date"
	case ByAddedDate:
		return "added date"
	case ByModifiedDate:
		return "modified date"
	case ByArtist:
		return "artist"
	case ByAlbumArtist:
		return "album artist"
	case ByComposer:
		return "composer"
	case ByAlbum:
		return "album"
	case ByGenre:
		return "genre"
	case BySize:
		return "size"
	case ByTime:
		return "duration"
	}
	return "unknown"
}

// Sort is one ordering criterion with direction.
type Sort struct {
	Key  SortKey
	Desc bool
}

// orderTerm maps a sort key to its ORDER BY expression and, for keys
// sorting by a related entity's display name, the join that makes the
// expression resolvable.
type orderTerm struct {
	expr string
	join string
}

var trackOrderTerms = map[SortKey]orderTerm{
	ByName:         {expr: "LOWER(Tracks.name)"},
	ByReleaseDate:  {expr: "Tracks.release_date"},
	ByAddedDate:    {expr: "Tracks.date_added"},
	ByModifiedDate: {expr: "Tracks.date_modified"},
	BySize:         {expr: "Tracks.size"},
	ByTime:         {expr: "Tracks.total_time"},
	ByArtist: {
		expr: "LOWER(Artist.name)",
		join: "LEFT JOIN Artists AS Artist ON Tracks.artist_id = Artist.artist_id",
	},
	ByAlbumArtist: {
		expr: "LOWER(AlbumArtist.name)",
		join: "LEFT JOIN Artists AS AlbumArtist ON Tracks.album_artist_id = AlbumArtist.artist_id",
	},
	ByComposer: {
		expr: "LOWER(Composers.name)",
		join: "LEFT JOIN Composers ON Tracks.composer_id = Composers.composer_id",
	},
	ByAlbum: {
		expr: "LOWER(Albums.name)",
		join: "LEFT JOIN Albums ON Tracks.album_id = Albums.album_id",
	},
	ByGenre: {
		expr: "LOWER(Genres.name)",
		join: "LEFT JOIN Genres ON Tracks.genre_id = Genres.genre_id",
	},
}

var albumOrderTerms = map[SortKey]orderTerm{
	ByName:         {expr: "LOWER(Albums.name)"},
	ByReleaseDate:  {expr: "Albums.release_date"},
	ByAddedDate:    {expr: "Albums.date_added"},
	ByModifiedDate: {expr: "Albums.date_modified"},
	ByArtist: {
		expr: "LOWER(Artists.name)",
		join: "LEFT JOIN Artists ON Albums.artist_id = Artists.artist_id",
	},
	ByAlbumArtist: {
		expr: "LOWER(Artists.name)",
		join: "LEFT JOIN Artists ON Albums.artist_id = Artists.artist_id",
	},
	ByGenre: {
		expr: "LOWER(Genres.name)",
		join: "LEFT JOIN Genres ON Albums.genre_id = Genres.genre_id",
	},
}

var nameOnlyOrderTerms = func(table string) map[SortKey]orderTerm {
	return map[SortKey]orderTerm{
		ByName: {expr: "LOWER(" + table + ".name)"},
	}
}

var playlistOrderTerms = map[SortKey]orderTerm{
	ByName:         {expr: "LOWER(Playlists.name)"},
	ByAddedDate:    {expr: "Playlists.date_added"},
	ByModifiedDate: {expr: "Playlists.date_modified"},
}

type orderTarget struct {
	table string
	pk    string
	terms map[SortKey]orderTerm
}

var orderTargets = map[EntityType]orderTarget{
	EntityTrack:    {table: "Tracks", pk: "Tracks.track_id", terms: trackOrderTerms},
	EntityAlbum:    {table: "Albums", pk: "Albums.album_id", terms: albumOrderTerms},
	EntityArtist:   {table: "Artists", pk: "Artists.artist_id", terms: nameOnlyOrderTerms("Artists")},
	EntityComposer: {table: "Composers", pk: "Composers.composer_id", terms: nameOnlyOrderTerms("Composers")},
	EntityGenre:    {table: "Genres", pk: "Genres.genre_id", terms: nameOnlyOrderTerms("Genres")},
	EntityPlaylist: {table: "Playlists", pk: "Playlists.playlist_id", terms: playlistOrderTerms},
}

// buildOrderQuery assembles "SELECT pk FROM table joins ORDER BY ..."
// for the given sort list. Keys the entity does not support are
// skipped; if nothing remains the query falls back to ByName.
func buildOrderQuery(target orderTarget, sorts []Sort) string {
	var (
		joins   []string
		seen    = map[string]bool{}
		clauses []string
	)

	for _, s := range sorts {
		term, ok := target.terms[s.Key]
		if !ok {
			continue
		}
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		clauses = append(clauses, term.expr+dir)
		if term.join != "" && !seen[term.join] {
			seen[term.join] = true
			joins = append(joins, term.join)
		}
	}

	if len(clauses) == 0 {
		clauses = []string{target.terms[ByName].expr + " ASC"}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(target.pk)
	b.WriteString(" FROM ")
	b.WriteString(target.table)
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(strings.Join(clauses, ", "))
	return b.String()
}

// OrderedIDs returns all ids of the given entity type ordered by the
// sort list, each key contributing one clause in priority order.
func (s *Store) OrderedIDs(entity EntityType, sorts []Sort) ([]int64, error) {
	target, ok := orderTargets[entity]
	if !ok {
		return nil, ErrNotFound
	}

	rows, err := s.db.Query(buildOrderQuery(target, sorts))
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
