package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/models"
	"github.com/alissonfar/expense-hub-sub001/utils"
)

var tagNames = []string{"Mercado", "Aluguel", "Luz", "Internet", "Lazer", "Transporte", "Farmacia"}

// Users creates numUsers fake accounts and returns them.
func Users(ctx context.Context, pool *pgxpool.Pool, numUsers int) []*models.User {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Name:     gofakeit.Name(),
			Email:    gofakeit.Email(),
			Password: gofakeit.Password(true, true, true, false, false, 10),
		}
		if err := database.RegisterUser(ctx, pool, user); err != nil {
			log.Fatalf("erro ao criar usuario de teste: %v", err)
		}
		users = append(users, user)
	}
	return users
}

// Hub creates a hub owned by the first user, with every other user as an
// active member, plus a handful of tags.
func Hub(ctx context.Context, pool *pgxpool.Pool, users []*models.User) (*models.Hub, []*models.Person, []*models.Tag) {
	hub := &models.Hub{Name: gofakeit.Company()}
	owner, err := database.CreateHub(ctx, pool, hub, users[0])
	if err != nil {
		log.Fatalf("erro ao criar hub de teste: %v", err)
	}

	people := []*models.Person{owner}
	for _, u := range users[1:] {
		invite := &models.Invite{
			HubID:        hub.ID,
			Email:        u.Email,
			Role:         models.RoleCollaborator,
			AccessPolicy: models.AccessGlobal,
		}
		if err := database.CreateInvite(ctx, pool, invite); err != nil {
			log.Fatalf("erro ao criar convite de teste: %v", err)
		}
		person, err := database.AcceptInvite(ctx, pool, invite.Code, u)
		if err != nil {
			log.Fatalf("erro ao aceitar convite de teste: %v", err)
		}
		people = append(people, person)
	}

	var tags []*models.Tag
	for _, name := range tagNames {
		tag := &models.Tag{HubID: hub.ID, Name: name, Color: gofakeit.HexColor()}
		if err := database.CreateTag(ctx, pool, tag); err != nil {
			log.Fatalf("erro ao criar tag de teste: %v", err)
		}
		tags = append(tags, tag)
	}
	return hub, people, tags
}

// Transactions creates numTransactions expenses split across random subsets
// of the hub members, with a tag each, dated within the last 60 days.
func Transactions(ctx context.Context, pool *pgxpool.Pool, hub *models.Hub, people []*models.Person, tags []*models.Tag, numTransactions int) []models.Transaction {
	var created []models.Transaction
	for i := 0; i < numTransactions; i++ {
		total := utils.RoundCents(gofakeit.Price(20, 800))
		shares := splitShares(total, people)

		date := time.Now().AddDate(0, 0, -rand.Intn(60))
		in := &database.TransactionInput{
			Description:  gofakeit.Sentence(3),
			TotalAmount:  total,
			Type:         models.TypeExpense,
			Date:         date.Format("2006-01-02"),
			DueDate:      date.AddDate(0, 0, 15).Format("2006-01-02"),
			Participants: shares,
			TagIDs:       []int{tags[rand.Intn(len(tags))].ID},
		}
		txs, err := database.CreateTransaction(ctx, pool, hub.ID, &people[0].ID, in)
		if err != nil {
			log.Fatalf("erro ao criar transacao de teste: %v", err)
		}
		created = append(created, txs...)
	}
	return created
}

func splitShares(total float64, people []*models.Person) []database.ParticipantInput {
	n := rand.Intn(len(people)) + 1
	share := utils.RoundCents(total / float64(n))
	shares := make([]database.ParticipantInput, n)
	acc := 0.0
	for i := 0; i < n; i++ {
		amount := share
		if i == n-1 {
			amount = utils.RoundCents(total - acc)
		}
		shares[i] = database.ParticipantInput{PersonID: people[i].ID, AmountOwed: amount}
		acc = utils.RoundCents(acc + amount)
	}
	return shares
}

// Payments settles a random share of the seeded transactions through the
// real payment path, so seeded data exercises the allocator and the status
// projection.
func Payments(ctx context.Context, pool *pgxpool.Pool, people []*models.Person, txs []models.Transaction) int {
	methods := []string{models.MethodPix, models.MethodCash, models.MethodTransfer}
	count := 0
	for _, t := range txs {
		if rand.Intn(2) == 0 {
			continue
		}
		for _, p := range t.Participants {
			if rand.Intn(3) == 0 {
				continue
			}
			payer := personByID(people, p.PersonID)
			if payer == nil {
				continue
			}
			// Sometimes a partial payment, sometimes full.
			amount := p.AmountOwed
			if rand.Intn(3) == 0 {
				amount = utils.RoundCents(amount / 2)
			}
			if amount < utils.CentEpsilon {
				continue
			}
			in := &models.SimplePaymentInput{
				PersonID:      p.PersonID,
				TransactionID: t.ID,
				AmountPaid:    amount,
				Date:          time.Now().Format("2006-01-02"),
				Method:        methods[rand.Intn(len(methods))],
				Notes:         fmt.Sprintf("seed: %s", gofakeit.HackerPhrase()),
			}
			if _, err := database.CreateSimplePayment(ctx, pool, payer, in); err != nil {
				log.Fatalf("erro ao criar pagamento de teste: %v", err)
			}
			count++
		}
	}
	return count
}

func personByID(people []*models.Person, id int) *models.Person {
	for _, p := range people {
		if p.ID == id {
			return p
		}
	}
	return nil
}
