package processor

import (
	"context"

	"github.com/abadojack/whatlanggo"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
)

// stageOutput is what a successful stage contributes to the record.
type stageOutput struct {
	path  string
	apply func(r *job.Results)
}

type stageFunc func(ctx context.Context, j *job.Job) (stageOutput, error)

type stage struct {
	name job.StageName
	run  stageFunc
}

// stagePlan lists the stages of j in execution order. Attach is only part
// of the plan when the submitter requested it.
func (p *implProcessor) stagePlan(j *job.Job) []stage {
	plan := []stage{
		{name: job.StageConversion, run: p.convert},
		{name: job.StageTranscription, run: p.transcribe},
		{name: job.StageSummary, run: p.summarize},
	}
	if j.Metadata.AttachRequested {
		plan = append(plan, stage{name: job.StageAttach, run: p.attach})
	}
	return plan
}

func (p *implProcessor) convert(ctx context.Context, j *job.Job) (stageOutput, error) {
	dst := p.convertedPath(j.ID)
	if err := p.converter.Convert(ctx, j.SourceFilePath, dst); err != nil {
		return stageOutput{}, err
	}
	return stageOutput{
		path:  dst,
		apply: func(r *job.Results) { r.ConvertedPath = dst },
	}, nil
}

func (p *implProcessor) transcribe(ctx context.Context, j *job.Job) (stageOutput, error) {
	text, err := p.transcriber.Transcribe(ctx, p.convertedPath(j.ID))
	if err != nil {
		return stageOutput{}, err
	}

	lang := whatlanggo.DetectLang(text).Iso6391()
	p.logger.Debug(ctx, "Detected transcript language: %s", lang)

	path, err := p.store.WriteTranscript(ctx, j.ID, j.Metadata, text)
	if err != nil {
		return stageOutput{}, job.NewStageError(job.StageTranscription, job.ArtifactFailure, err.Error(), err)
	}
	return stageOutput{
		path: path,
		apply: func(r *job.Results) {
			r.Transcription = text
			r.TranscriptPath = path
			r.Language = lang
		},
	}, nil
}

func (p *implProcessor) summarize(ctx context.Context, j *job.Job) (stageOutput, error) {
	summary, err := p.summarizer.Summarize(ctx, j.Results.Transcription)
	if err != nil {
		return stageOutput{}, err
	}

	path, err := p.store.WriteSummary(ctx, j.ID, j.Metadata, summary)
	if err != nil {
		return stageOutput{}, job.NewStageError(job.StageSummary, job.ArtifactFailure, err.Error(), err)
	}
	return stageOutput{
		path: path,
		apply: func(r *job.Results) {
			r.Summary = summary
			r.SummaryPath = path
		},
	}, nil
}

func (p *implProcessor) attach(ctx context.Context, j *job.Job) (stageOutput, error) {
	if err := p.attacher.Attach(ctx, j); err != nil {
		return stageOutput{}, err
	}
	return stageOutput{}, nil
}
