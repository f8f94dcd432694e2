package store

import (
	"context"
	"fmt"
	"slices"

	"recipebox/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore keeps one document per recipe, keyed by recipe id.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// OpenFirestore connects to projectID. credentialsFile may be empty to use
// application default credentials.
func OpenFirestore(ctx context.Context, projectID, credentialsFile, collection string) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Firestore{client: client, collection: collection}, nil
}

func (f *Firestore) recipes() *firestore.CollectionRef {
	return f.client.Collection(f.collection)
}

// List reads every document and orders them by creation time. Documents
// written without createdAt sort first, in document id order.
func (f *Firestore) List(ctx context.Context) (*models.Collection, error) {
	var recipes []models.Recipe
	iter := f.recipes().Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list recipes: %w", err)
		}

		recipe, err := decodeDoc(doc)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	slices.SortStableFunc(recipes, func(a, b models.Recipe) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return models.NewCollection(recipes...), nil
}

func (f *Firestore) Get(ctx context.Context, id string) (models.Recipe, error) {
	iter := f.recipes().Where("id", "==", id).Limit(1).Documents(ctx)
	defer iter.Stop()
	doc, err := iter.Next()
	if err == iterator.Done {
		return models.Recipe{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Recipe{}, fmt.Errorf("get %s: %w", id, err)
	}

	return decodeDoc(doc)
}

func (f *Firestore) Create(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	r = prepare(r)
	if _, err := f.recipes().Doc(r.ID).Set(ctx, r); err != nil {
		return models.Recipe{}, fmt.Errorf("create %s: %w", r.ID, err)
	}
	return r, nil
}

func (f *Firestore) Delete(ctx context.Context, id string) error {
	_, err := f.recipes().Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// UpdateField converts value against the stored recipe first, so a value of
// the wrong type is rejected instead of poisoning later reads.
func (f *Firestore) UpdateField(ctx context.Context, id, field string, value interface{}) error {
	if err := models.CheckUpdatableField(field); err != nil {
		return err
	}
	current, err := f.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	updated, err := applyField(current, field, value)
	if err != nil {
		return err
	}
	typed, err := fieldValue(updated, field)
	if err != nil {
		return err
	}
	_, err = f.recipes().Doc(id).Update(ctx, []firestore.Update{{Path: field, Value: typed}})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", id, err)
	}
	return nil
}

func (f *Firestore) SetFavorite(ctx context.Context, id, uid string, favorite bool) error {
	var value interface{} = firestore.ArrayRemove(uid)
	if favorite {
		value = firestore.ArrayUnion(uid)
	}
	_, err := f.recipes().Doc(id).Update(ctx, []firestore.Update{{Path: "favoritedBy", Value: value}})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("favorite %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("favorite %s: %w", id, err)
	}
	return nil
}

// decodeDoc reads a recipe document, including documents still in the
// capitalized layout written before the field rename.
func decodeDoc(doc *firestore.DocumentSnapshot) (models.Recipe, error) {
	var recipe models.Recipe
	if err := doc.DataTo(&recipe); err != nil {
		return models.Recipe{}, fmt.Errorf("decode recipe %s: %w", doc.Ref.ID, err)
	}
	if isLegacyDoc(doc.Data()) {
		var legacy legacyRecipe
		if err := doc.DataTo(&legacy); err != nil {
			return models.Recipe{}, fmt.Errorf("decode recipe %s: %w", doc.Ref.ID, err)
		}
		recipe = legacy.merge(recipe)
	}
	if recipe.ID == "" {
		recipe.ID = doc.Ref.ID
	}
	recipe.Normalize()
	return recipe, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
