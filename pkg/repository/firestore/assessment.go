package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// assessmentDoc is the Firestore document representation of
// model.Assessment. Fields are flattened so that Fingerprint, Level and
// CreatedAt can be used in queries and composite indexes.
type assessmentDoc struct {
	ID              string    `firestore:"ID"`
	Fingerprint     string    `firestore:"Fingerprint"`
	Title           string    `firestore:"Title"`
	Description     string    `firestore:"Description"`
	CategoryID      string    `firestore:"CategoryID"`
	TeamID          string    `firestore:"TeamID"`
	RequestedBy     string    `firestore:"RequestedBy"`
	SourceKind      string    `firestore:"SourceKind"`
	SourceRef       string    `firestore:"SourceRef"`
	Scope           string    `firestore:"Scope"`
	Severity        string    `firestore:"Severity"`
	HumanImpact     string    `firestore:"HumanImpact"`
	TimeSensitivity string    `firestore:"TimeSensitivity"`
	Level           string    `firestore:"Level"`
	OrgCapTriggered bool      `firestore:"OrgCapTriggered"`
	Trace           []string  `firestore:"Trace"`
	Summary         string    `firestore:"Summary"`
	ModelName       string    `firestore:"ModelName"`
	CachedFrom      string    `firestore:"CachedFrom"`
	CreatedAt       time.Time `firestore:"CreatedAt"`
}

func toAssessmentDoc(a *model.Assessment) *assessmentDoc {
	return &assessmentDoc{
		ID:              string(a.ID),
		Fingerprint:     a.Fingerprint,
		Title:           a.Proposal.Title,
		Description:     a.Proposal.Description,
		CategoryID:      string(a.Proposal.CategoryID),
		TeamID:          string(a.Proposal.TeamID),
		RequestedBy:     a.Proposal.RequestedBy,
		SourceKind:      string(a.Proposal.Source.Kind),
		SourceRef:       a.Proposal.Source.Ref,
		Scope:           string(a.Factors.Scope),
		Severity:        string(a.Factors.Severity),
		HumanImpact:     string(a.Factors.HumanImpact),
		TimeSensitivity: string(a.Factors.TimeSensitivity),
		Level:           string(a.Classification.Level),
		OrgCapTriggered: a.Classification.OrgCapTriggered,
		Trace:           a.Trace,
		Summary:         a.Summary,
		ModelName:       a.ModelName,
		CachedFrom:      string(a.CachedFrom),
		CreatedAt:       a.CreatedAt,
	}
}

func fromAssessmentDoc(d *assessmentDoc) *model.Assessment {
	return &model.Assessment{
		ID:          model.AssessmentID(d.ID),
		Fingerprint: d.Fingerprint,
		Proposal: model.Proposal{
			Title:       d.Title,
			Description: d.Description,
			CategoryID:  types.CategoryID(d.CategoryID),
			TeamID:      types.TeamID(d.TeamID),
			RequestedBy: d.RequestedBy,
			Source: model.Source{
				Kind: model.SourceKind(d.SourceKind),
				Ref:  d.SourceRef,
			},
		},
		Factors: model.RiskFactors{
			Scope:           types.Scope(d.Scope),
			Severity:        types.Severity(d.Severity),
			HumanImpact:     types.HumanImpact(d.HumanImpact),
			TimeSensitivity: types.TimeSensitivity(d.TimeSensitivity),
		},
		Classification: model.RiskClassification{
			Level:           types.RiskLevel(d.Level),
			OrgCapTriggered: d.OrgCapTriggered,
		},
		Trace:      d.Trace,
		Summary:    d.Summary,
		ModelName:  d.ModelName,
		CachedFrom: model.AssessmentID(d.CachedFrom),
		CreatedAt:  d.CreatedAt,
	}
}

func docToAssessment(doc *firestore.DocumentSnapshot) (*model.Assessment, error) {
	var d assessmentDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromAssessmentDoc(&d), nil
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client) *assessmentRepository {
	return &assessmentRepository{
		client: client,
	}
}

func (r *assessmentRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "assessments")
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	created := *assessment
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	docRef := r.collection().Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toAssessmentDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	a, err := docToAssessment(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", id))
	}

	return a, nil
}

func (r *assessmentRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*model.Assessment, error) {
	iter := r.collection().
		Where("Fingerprint", "==", fingerprint).
		OrderBy("CreatedAt", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query assessment by fingerprint", goerr.V("fingerprint", fingerprint))
	}

	a, err := docToAssessment(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("fingerprint", fingerprint))
	}

	return a, nil
}

func (r *assessmentRepository) List(ctx context.Context, opts ...interfaces.ListAssessmentOption) ([]*model.Assessment, error) {
	cfg := interfaces.BuildListAssessmentConfig(opts...)

	query := r.collection().Query
	if level := cfg.Level(); level != nil {
		query = query.Where("Level", "==", string(*level))
	}
	query = query.OrderBy("CreatedAt", firestore.Desc)
	if limit := cfg.Limit(); limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	assessments := make([]*model.Assessment, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments")
		}

		a, err := docToAssessment(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment")
		}

		assessments = append(assessments, a)
	}

	return assessments, nil
}
