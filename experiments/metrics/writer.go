package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes one competitor in an experiment.
type AgentConfig struct {
	ID          int
	Kind        string // "mcts", "sampling" or "random"
	Iterations  int
	Duration    time.Duration
	Cache       bool
	Temperature float64
}

type GameRecord struct {
	ID     int
	AgentX int // AgentConfig.ID
	AgentO int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// Summary aggregates the games of one match-up from the first agent's side.
type Summary struct {
	MatchUp      int
	Agent1       int
	Agent2       int
	Games        int
	Agent1Wins   int
	Agent2Wins   int
	Draws        int
	MeanMoves    float64
	StdMoves     float64
	MeanEpisodes float64
	CacheHitRate float64
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> to hold one experiment's files.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) write(file, what string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", what, err)
	}
	return f.Close()
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Iterations),
			config.Duration.String(),
			strconv.FormatBool(config.Cache),
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
		})
	}
	header := []string{"id", "kind", "iterations", "duration", "cache", "temperature"}
	return w.write("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.AgentX),
			strconv.Itoa(record.AgentO),
			record.StartingPlayer,
			record.Winner,
			record.Result,
			record.StartTime.Format(time.RFC3339Nano),
			record.EndTime.Format(time.RFC3339Nano),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	header := []string{"id", "agent_x", "agent_o", "starting_player", "winner", "result", "start_time", "end_time", "duration", "total_moves"}
	return w.write("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			strconv.Itoa(record.Move),
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.TerminalHits),
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.Nodes),
			strconv.FormatBool(record.CacheHit),
			strconv.FormatBool(record.CacheStoreFailed),
			record.StopReason,
		})
	}
	header := []string{"game", "step", "player", "move", "duration", "episodes", "full_playouts", "terminal_hits", "expansions", "nodes", "cache_hit", "cache_store_failed", "stop_reason"}
	return w.write("move_records.csv", "move records", header, rows)
}

func (w *Writer) WriteSummaries(summaries []Summary) error {
	rows := make([][]string, 0, len(summaries))
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.MatchUp),
			strconv.Itoa(s.Agent1),
			strconv.Itoa(s.Agent2),
			strconv.Itoa(s.Games),
			strconv.Itoa(s.Agent1Wins),
			strconv.Itoa(s.Agent2Wins),
			strconv.Itoa(s.Draws),
			ftoa(s.MeanMoves),
			ftoa(s.StdMoves),
			ftoa(s.MeanEpisodes),
			ftoa(s.CacheHitRate),
		})
	}
	header := []string{"match_up", "agent1", "agent2", "games", "agent1_wins", "agent2_wins", "draws", "mean_moves", "std_moves", "mean_episodes", "cache_hit_rate"}
	return w.write("summaries.csv", "summaries", header, rows)
}
