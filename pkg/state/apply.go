package state

import "gitlab.com/tinyland/lab/strum/pkg/remote"

// Write-back methods the worker calls after a fetch returns. Each takes the
// lock, drops stale results by sequence number, and stores current ones.

// ApplyPlaylists stores one playlists page. Returns false for stale results.
func (a *App) ApplyPlaylists(seq uint64, p remote.Page[remote.Playlist]) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenPlaylists, seq) {
		return false
	}
	a.Playlists.Add(p.Items, p.Total)
	return true
}

// ApplyPlaylistTracks stores one page of the track table and labels it.
func (a *App) ApplyPlaylistTracks(seq uint64, title, contextURI string, p remote.Page[remote.Track]) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenPlaylistTracks, seq) {
		return false
	}
	if title != a.TableTitle {
		a.PlaylistTracks.Reset()
	}
	a.TableTitle = title
	a.TableContext = contextURI
	a.PlaylistTracks.Add(p.Items, p.Total)
	return true
}

// ApplySavedTracks stores one liked-songs page.
func (a *App) ApplySavedTracks(seq uint64, p remote.Page[remote.SavedTrack]) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenSavedTracks, seq) {
		return false
	}
	a.SavedTracks.Add(p.Items, p.Total)
	return true
}

// ApplySavedAlbums stores one album-library page.
func (a *App) ApplySavedAlbums(seq uint64, p remote.Page[remote.SavedAlbum]) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenSavedAlbums, seq) {
		return false
	}
	a.SavedAlbums.Add(p.Items, p.Total)
	return true
}

// ApplySavedShows stores one podcast-library page.
func (a *App) ApplySavedShows(seq uint64, p remote.Page[remote.SavedShow]) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenSavedShows, seq) {
		return false
	}
	a.SavedShows.Add(p.Items, p.Total)
	return true
}

// ApplyEpisodes stores one episodes page.
func (a *App) ApplyEpisodes(seq uint64, p remote.Page[remote.Episode]) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenEpisodes, seq) {
		return false
	}
	a.Episodes.Add(p.Items, p.Total)
	return true
}

// ApplyFollowedArtists stores the followed-artist list.
func (a *App) ApplyFollowedArtists(seq uint64, artists []remote.Artist) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenFollowedArtists, seq) {
		return false
	}
	a.FollowedArtists = artists
	return true
}

// ApplyRecentlyPlayed stores the history list.
func (a *App) ApplyRecentlyPlayed(seq uint64, items []remote.PlayHistoryItem) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenRecentlyPlayed, seq) {
		return false
	}
	a.RecentlyPlayed = items
	return true
}

// ApplyTopTracks stores the most-played tracks.
func (a *App) ApplyTopTracks(seq uint64, tracks []remote.Track) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenTopTracks, seq) {
		return false
	}
	a.TopTracks = tracks
	return true
}

// ApplyTopArtists stores the most-played artists.
func (a *App) ApplyTopArtists(seq uint64, artists []remote.Artist) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenTopArtists, seq) {
		return false
	}
	a.TopArtists = artists
	return true
}

// ApplyAlbumTracks stores one page of an album's tracks into the track
// table slot.
func (a *App) ApplyAlbumTracks(seq uint64, title, contextURI string, p remote.Page[remote.Track]) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenAlbumTracks, seq) {
		return false
	}
	if title != a.TableTitle {
		a.PlaylistTracks.Reset()
	}
	a.TableTitle = title
	a.TableContext = contextURI
	a.PlaylistTracks.Add(p.Items, p.Total)
	return true
}

// ApplyArtistDetail stores the artist screen aggregate.
func (a *App) ApplyArtistDetail(seq uint64, d remote.ArtistDetail) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenArtistDetail, seq) {
		return false
	}
	a.Artist = &d
	return true
}

// ApplySearchResults stores the results for query. Stale results (an older
// keystroke's response arriving after a newer one) are discarded.
func (a *App) ApplySearchResults(seq uint64, query string, r remote.SearchResults) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenSearch, seq) {
		return false
	}
	a.SearchQuery = query
	a.Search = r
	return true
}

// ApplyAnalysis stores the audio-feature summary.
func (a *App) ApplyAnalysis(seq uint64, an remote.AudioAnalysis) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.commitSeq(ScreenAnalysis, seq) {
		return false
	}
	a.Analysis = &an
	return true
}

// ApplyUser stores the account.
func (a *App) ApplyUser(u remote.User) {
	a.mu.Lock()
	a.User = &u
	a.mu.Unlock()
}

// ApplyDevices stores the device list.
func (a *App) ApplyDevices(ds []remote.Device) {
	a.mu.Lock()
	a.Devices = ds
	a.mu.Unlock()
}

// ApplyCover stores a rendered cover string for its resolution slot.
func (a *App) ApplyCover(url, rendered string, highRes bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Cover.Fetching = false
	a.Cover.URL = url
	if highRes {
		a.Cover.HighRes = rendered
	} else {
		a.Cover.Normal = rendered
	}
}
