package service

import (
	"context"
	"encoding/json"
	"testing"

	"scoreboard/internal/dto"
	"scoreboard/internal/registry"
	"scoreboard/internal/service/platform"
	"scoreboard/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExamService(t *testing.T, fake *fakePlatform) *ExamService {
	t.Helper()
	return NewExamService(&telemetry.Trace{}, zap.NewNop(), fake, newTestStore(t))
}

func rawList(items ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(items))
	for i, item := range items {
		out[i] = json.RawMessage(item)
	}
	return out
}

func TestListExams_SavesFirstPageIntoRecord(t *testing.T) {
	fake := &fakePlatform{exams: &platform.ExamPage{
		DataList:  rawList(`{"id":"e1","name":"期中"}`, `{"id":"e2","name":"月考"}`),
		TotalPage: 3,
	}}
	svc := newTestExamService(t, fake)
	ctx := context.Background()
	_, err := svc.store.Upsert(ctx, registry.UserPatch{Account: registry.String("13800000000")})
	require.NoError(t, err)

	resp, err := svc.ListExams(ctx, "tok", &dto.ListExamsQuery{StudentID: "s1", RecordKey: "13800000000"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 3, resp.TotalPage)
	assert.Len(t, resp.DataList, 2)

	rec, ok := svc.store.Get("13800000000")
	require.True(t, ok)
	assert.Len(t, rec.ExamData, 2)
}

func TestListExams_LaterPagesNotSaved(t *testing.T) {
	fake := &fakePlatform{exams: &platform.ExamPage{DataList: rawList(`{"id":"e9"}`), TotalPage: 3}}
	svc := newTestExamService(t, fake)
	ctx := context.Background()
	_, err := svc.store.Upsert(ctx, registry.UserPatch{Account: registry.String("a")})
	require.NoError(t, err)

	_, err = svc.ListExams(ctx, "tok", &dto.ListExamsQuery{StudentID: "s1", Page: 2, RecordKey: "a"})
	require.NoError(t, err)

	rec, _ := svc.store.Get("a")
	assert.Empty(t, rec.ExamData)
}

func TestAnalysis_RadarAndTotal(t *testing.T) {
	fake := &fakePlatform{scores: map[string]json.RawMessage{
		"e1": json.RawMessage(`[
			{"courseName":"总分","gainScore":600,"fullScore":750,"ratio":0.8},
			{"courseName":"语文","gainScore":120,"fullScore":0,"ratio":0.25},
			{"courseName":"物理","gainScore":70,"nceGainScore":85,"needAssignScore":true,"fullScore":100,"ratio":"0.1234","cityRank":12},
			{"courseName":"生物","gainScore":33,"fullScore":null,"ratio":null,"rank":4}
		]`),
	}}
	svc := newTestExamService(t, fake)

	resp, err := svc.Analysis(context.Background(), "tok", "e1", "acc")
	require.NoError(t, err)

	require.NotNil(t, resp.Total)
	assert.Equal(t, 600.0, resp.Total.Score)
	require.Len(t, resp.Subjects, 3)
	require.Len(t, resp.Radar, 3)

	chinese := resp.Radar[0]
	assert.Equal(t, "语文", chinese.Subject)
	assert.Equal(t, 150.0, chinese.FullScore)
	assert.Equal(t, 80.0, chinese.NormalizedScore)
	assert.Equal(t, 25.0, chinese.Ratio)

	physics := resp.Radar[1]
	assert.Equal(t, 85.0, physics.Score, "assigned score wins")
	assert.Equal(t, 85.0, physics.NormalizedScore)
	assert.Equal(t, 12.3, physics.Ratio)
	assert.Equal(t, 12.0, resp.Subjects[1].Rank)

	biology := resp.Radar[2]
	assert.Equal(t, 100.0, biology.FullScore)
	assert.Equal(t, 33.0, biology.NormalizedScore)
	assert.Equal(t, 4.0, resp.Subjects[2].Rank)
}

func TestAnalysis_EmptyScores(t *testing.T) {
	svc := newTestExamService(t, &fakePlatform{scores: map[string]json.RawMessage{"e1": json.RawMessage(`null`)}})

	resp, err := svc.Analysis(context.Background(), "tok", "e1", "acc")
	require.NoError(t, err)
	assert.Nil(t, resp.Total)
	assert.Empty(t, resp.Radar)
}

func TestHistory_LastFiveSortedByDate(t *testing.T) {
	exams := rawList(
		`{"id":"e1","name":"六月","startTime":"2024-06-01 08:00:00"}`,
		`{"id":"e2","name":"三月","startTime":"2024-03-01 08:00:00"}`,
		`{"id":"e3","name":"五月","startTime":"2024-05-01 08:00:00"}`,
		`{"id":"e4","name":"缺考","startTime":"2024-04-01 08:00:00"}`,
		`{"id":"e5","name":"一月","startTime":"2024-01-01 08:00:00"}`,
		`{"id":"e6","name":"太舊","startTime":"2023-01-01 08:00:00"}`,
	)
	score := func(gain float64, cityRank, rank int) json.RawMessage {
		b, _ := json.Marshal([]map[string]any{
			{"courseName": "数学", "gainScore": gain, "cityRank": cityRank, "rank": rank},
			{"courseName": "语文", "gainScore": 1},
		})
		return b
	}
	fake := &fakePlatform{
		exams: &platform.ExamPage{DataList: exams, TotalPage: 1},
		scores: map[string]json.RawMessage{
			"e1": score(130, 50, 3),
			"e2": score(110, 0, 7),
			"e3": score(120, 40, 2),
			"e4": json.RawMessage(`[]`),
			"e5": score(100, 90, 9),
			"e6": score(90, 1, 1),
		},
	}
	svc := newTestExamService(t, fake)

	points, err := svc.History(context.Background(), "tok", &dto.HistoryQuery{StudentID: "s", AccountID: "a", Subject: "数学"})
	require.NoError(t, err)

	var names []string
	for _, p := range points {
		names = append(names, p.Exam)
	}
	assert.Equal(t, []string{"一月", "三月", "五月", "六月"}, names)
	assert.Equal(t, 7.0, points[1].Rank, "falls back to school rank")
	assert.Equal(t, 90.0, points[0].Rank)
	assert.NotContains(t, fake.calls, "scores:e6")
}

func TestExamTime(t *testing.T) {
	assert.True(t, examTime("2024-01-02").Before(examTime("2024-01-03 00:00:01")))
	assert.Equal(t, int64(1700000000000), examTime("1700000000000").UnixMilli())
	assert.True(t, examTime("not a date").IsZero())
}
