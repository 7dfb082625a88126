// Package cinephile provides an embedded Go client for the cinephile movie
// recommendation engine backed by Redis with the search module.
//
// The client wires the full recommendation pipeline in-process: semantic
// retrieval over the movie catalog, streaming availability filtering, mood
// to filter translation, and challenge evaluation.
//
//	client, _ := cinephile.New(ctx,
//	    cinephile.WithRedis("localhost:6379", ""),
//	    cinephile.WithOpenAIEmbeddings(apiKey, "", "text-embedding-004", 768),
//	    cinephile.WithTMDB(tmdbToken, "FR"),
//	)
//	defer client.Close()
//
//	recs, _ := client.Recommend(ctx, "un thriller qui retourne le cerveau",
//	    [][]string{{"Netflix"}, {"Canal+"}}, 10)
//
// Without a TMDB token the availability filter is skipped; without an
// embedding provider searches degrade to empty results. The mood translator
// always answers, with or without a completion provider.
package cinephile
