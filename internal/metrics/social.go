package metrics

import (
	"math"
	"strings"

	"werewolf-arena/internal/game"
)

// buildPersuasion attributes each vote on the day's elimination target to the
// speaker whose mention of that target was most recent when the vote was
// cast. All discussion precedes voting in a day phase, so the latest mention
// of the day wins.
func (e *Engine) buildPersuasion(rec *game.Record, rep *Report, timeline []message, votes []dayVotes, ids []string) {
	speeches := make(map[string]int)
	for _, m := range timeline {
		speeches[m.speaker]++
	}

	var attributions []SwingAttribution
	for _, dv := range votes {
		if dv.eliminated == "" {
			continue
		}
		lastSpeaker := ""
		for _, m := range timeline {
			if m.day != dv.day {
				continue
			}
			for _, hit := range e.Mentions.Mentions(m.text, []string{dv.eliminated}) {
				if hit == dv.eliminated {
					lastSpeaker = m.speaker
				}
			}
		}
		if lastSpeaker == "" {
			continue
		}
		for _, b := range dv.ballots {
			if b.Target != dv.eliminated {
				continue
			}
			attributions = append(attributions, SwingAttribution{
				Day:     dv.day,
				Voter:   b.Voter,
				Target:  b.Target,
				Speaker: lastSpeaker,
			})
		}
	}

	perAgent := make(map[string]PersuasionStats, len(ids))
	for _, id := range ids {
		swings := 0
		for _, a := range attributions {
			if a.Speaker == id {
				swings++
			}
		}
		rate := 0.0
		if speeches[id] > 0 {
			rate = float64(swings) / float64(speeches[id])
		}
		perAgent[id] = PersuasionStats{
			SwingsCaused:    swings,
			SpeechesCount:   speeches[id],
			SwingsPerSpeech: rate,
		}
	}
	rep.Persuasion = Persuasion{PerAgent: perAgent, Attributions: attributions}
}

// buildResistance: an agent is exposed on a day when somebody of the opposing
// alignment publicly named that day's elimination target; it resisted when
// its own final vote that day went elsewhere.
func (e *Engine) buildResistance(rep *Report, timeline []message, votes []dayVotes, ids []string, alignments map[string]game.Alignment) {
	out := make(map[string]ResistanceStats, len(ids))
	for _, id := range ids {
		exposures := 0
		resisted := 0
		for _, dv := range votes {
			if dv.eliminated == "" || !contains(dv.eligible, id) {
				continue
			}
			exposed := false
			for _, m := range timeline {
				if m.day != dv.day || alignments[m.speaker] == alignments[id] {
					continue
				}
				if len(e.Mentions.Mentions(m.text, []string{dv.eliminated})) > 0 {
					exposed = true
					break
				}
			}
			if !exposed {
				continue
			}
			exposures++
			finalVote := ""
			for _, b := range dv.ballots {
				if b.Voter == id {
					finalVote = b.Target
				}
			}
			if finalVote != "" && finalVote != dv.eliminated {
				resisted++
			}
		}
		rate := 0.0
		if exposures > 0 {
			rate = float64(resisted) / float64(exposures)
		}
		out[id] = ResistanceStats{Exposures: exposures, Resisted: resisted, ResistanceRate: rate}
	}
	rep.Resistance = out
}

func (e *Engine) buildEarlySignals(rec *game.Record, rep *Report, timeline []message, votes []dayVotes, ids []string, alignments map[string]game.Alignment) {
	var day1 *dayVotes
	for i := range votes {
		if votes[i].day == 1 {
			day1 = &votes[i]
			break
		}
	}
	if day1 == nil {
		return
	}

	wolfElim := day1.eliminated != "" && alignments[day1.eliminated] == game.AlignmentWolves

	townVotes := 0
	townOnWolves := 0
	wolvesHit := make(map[string]bool)
	for _, b := range day1.ballots {
		if alignments[b.Voter] != game.AlignmentTown {
			continue
		}
		townVotes++
		if alignments[b.Target] == game.AlignmentWolves {
			townOnWolves++
			wolvesHit[b.Target] = true
		}
	}
	precision := 0.0
	if townVotes > 0 {
		precision = float64(townOnWolves) / float64(townVotes)
	}
	totalWolves := 0
	for _, id := range ids {
		if alignments[id] == game.AlignmentWolves {
			totalWolves++
		}
	}
	recall := 0.0
	if totalWolves > 0 {
		recall = float64(len(wolvesHit)) / float64(totalWolves)
	}

	townMentionsOfWolves := 0
	totalMentions := 0
	for _, m := range timeline {
		if m.day != 1 {
			continue
		}
		for _, id := range ids {
			totalMentions += countMentions(m.text, id)
		}
		if alignments[m.speaker] == game.AlignmentTown {
			for _, id := range ids {
				if alignments[id] == game.AlignmentWolves {
					townMentionsOfWolves += countMentions(m.text, id)
				}
			}
		}
	}

	rep.EarlySignals = &EarlySignals{
		Day1WolfElim:         wolfElim,
		Day1Precision:        precision,
		Day1Recall:           recall,
		TownMentionsOfWolves: townMentionsOfWolves,
		TotalMentionsDay1:    totalMentions,
	}
}

// buildStrategyAlignment compares privately declared targets against public
// mentions and later votes. A large private/public gap widens the deception
// delta.
func (e *Engine) buildStrategyAlignment(rec *game.Record, rep *Report, timeline []message, votes []dayVotes, ids []string) {
	privateIntents := nightIntents(rec)
	for _, m := range timeline {
		if m.intent != "" {
			privateIntents[m.speaker] = append(privateIntents[m.speaker], m.intent)
		}
	}

	out := make(map[string]StrategyStats, len(ids))
	for _, id := range ids {
		var publicTargets []string
		for _, m := range timeline {
			if m.speaker != id {
				continue
			}
			publicTargets = append(publicTargets, e.Mentions.Mentions(m.text, ids)...)
		}
		var voteTargets []string
		for _, dv := range votes {
			for _, b := range dv.ballots {
				if b.Voter == id {
					voteTargets = append(voteTargets, b.Target)
				}
			}
		}

		private := privateIntents[id]
		if len(private) == 0 {
			out[id] = StrategyStats{}
			continue
		}
		privPub := overlapRate(private, publicTargets)
		privVote := overlapRate(private, voteTargets)
		delta := 1.0 - privPub
		out[id] = StrategyStats{
			PrivateToPublic: &privPub,
			PrivateToVote:   &privVote,
			DeceptionDelta:  &delta,
		}
	}
	rep.StrategyAlignment = out
}

func contains(list []string, id string) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}

func overlapRate(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	set := make(map[string]bool, len(b))
	for _, x := range b {
		set[x] = true
	}
	hits := 0
	for _, x := range a {
		if set[x] {
			hits++
		}
	}
	return float64(hits) / float64(len(a))
}

// buildCoordination measures wolf teamwork: average pairwise bag-of-words
// cosine over wolf speeches, and extra wolf votes piling onto the final
// target beyond the first.
func (e *Engine) buildCoordination(rep *Report, timeline []message, votes []dayVotes, alignments map[string]game.Alignment) {
	var wolfTexts []string
	for _, m := range timeline {
		if alignments[m.speaker] == game.AlignmentWolves {
			wolfTexts = append(wolfTexts, m.text)
		}
	}
	var sims []float64
	for i := 0; i < len(wolfTexts); i++ {
		for j := i + 1; j < len(wolfTexts); j++ {
			sims = append(sims, cosine(tokenBag(wolfTexts[i]), tokenBag(wolfTexts[j])))
		}
	}
	var similarity *float64
	if len(sims) > 0 {
		sum := 0.0
		for _, v := range sims {
			sum += v
		}
		avg := sum / float64(len(sims))
		similarity = &avg
	}

	support := 0
	for _, dv := range votes {
		if dv.eliminated == "" {
			continue
		}
		wolfVotes := 0
		for _, b := range dv.ballots {
			if alignments[b.Voter] == game.AlignmentWolves && b.Target == dv.eliminated {
				wolfVotes++
			}
		}
		if wolfVotes > 1 {
			support += wolfVotes - 1
		}
	}

	rep.Coordination = Coordination{
		WolfArgumentSimilarity:  similarity,
		SequentialSupportEvents: support,
	}
}

func tokenBag(text string) map[string]int {
	bag := make(map[string]int)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?;:")
		if tok != "" {
			bag[tok]++
		}
	}
	return bag
}

func cosine(a, b map[string]int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	dot := 0
	for k, va := range a {
		dot += va * b[k]
	}
	var na, nb float64
	for _, v := range a {
		na += float64(v * v)
	}
	for _, v := range b {
		nb += float64(v * v)
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0.0
	}
	return float64(dot) / den
}

var (
	hedgeTerms   = map[string]bool{"maybe": true, "perhaps": true, "might": true, "unsure": true, "uncertain": true}
	certainTerms = map[string]bool{"definitely": true, "certainly": true, "clearly": true, "sure": true}
)

func (e *Engine) buildStyle(rep *Report, timeline []message, ids []string) {
	out := make(map[string]StyleStats, len(ids))
	for _, id := range ids {
		words := 0
		hedges := 0
		certain := 0
		for _, m := range timeline {
			if m.speaker != id {
				continue
			}
			for _, w := range strings.Fields(strings.ToLower(m.text)) {
				w = strings.Trim(w, ".,!?;:")
				words++
				if hedgeTerms[w] {
					hedges++
				}
				if certainTerms[w] {
					certain++
				}
			}
		}
		st := StyleStats{}
		if words > 0 {
			st.HedgingRate = float64(hedges) / float64(words)
			st.CertaintyRate = float64(certain) / float64(words)
		}
		out[id] = st
	}
	rep.Style = out
}

// buildCentrality derives a directed mention graph: one edge speaker to
// mentioned player per discussion turn containing that player's identifier.
func (e *Engine) buildCentrality(rep *Report, timeline []message, ids []string) {
	in := make(map[string]int)
	out := make(map[string]int)
	for _, m := range timeline {
		for _, hit := range e.Mentions.Mentions(m.text, ids) {
			out[m.speaker]++
			in[hit]++
		}
	}
	stats := make(map[string]CentralityStats, len(ids))
	for _, id := range ids {
		stats[id] = CentralityStats{InDegree: in[id], OutDegree: out[id]}
	}
	rep.Centrality = stats
}
