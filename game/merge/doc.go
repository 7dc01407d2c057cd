// Package merge implements the sliding-tile merge game (2048-style).
//
// The board is a square grid of tile values where 0 marks an empty cell.
// Every move slides all tiles toward one edge; two equal neighbours merge
// into their sum, and each tile merges at most once per move. A move that
// changes the board spawns one new tile (2, or 4 with FourChance percent
// probability) in a uniformly random empty cell.
//
// Moves are implemented by rotating the board so that the requested
// direction becomes a left slide, sliding every row, then rotating back.
//
// Reaching WinTile sets Won, which is not terminal: the player may keep
// sliding. A full board with no equal neighbours sets Lost.
//
// The best score is the only persisted value. It is read through a
// BestScoreStore when the engine is built and written whenever the current
// score beats it.
//
//	eng, err := merge.New(merge.DefaultConfig(), core.NewRandom(0),
//		merge.WithBestScoreStore(store))
//	if err != nil {
//		log.Fatal(err)
//	}
//	state := eng.ApplyInput(merge.Left)
package merge
