// Package playlist reads and writes .bplist playlists and installs the songs
// they reference that are missing from the content root.
//
// A .bplist file is JSON:
//
//	{
//	  "playlistTitle": "Ranked Pack",
//	  "playlistAuthor": "someone",
//	  "songs": [
//	    {"key": "1a2b", "hash": "0123...", "songName": "Song", "levelAuthorName": "Mapper"}
//	  ]
//	}
//
// Example:
//
//	pl, err := playlist.Load("ranked.bplist")
//	if err != nil {
//	    return err
//	}
//	syncer := playlist.NewSyncer(manager, index, 4, log)
//	report, err := syncer.Sync(ctx, pl)
package playlist
