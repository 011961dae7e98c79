package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/config"
	"github.com/cafcollect/caf-backend/pkg/db"
	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	"github.com/cafcollect/caf-backend/pkg/logger"
	"github.com/cafcollect/caf-backend/pkg/security"
)

// demoRate is the 0.0200 snapshot applied to every demo recouvrement.
var demoRate = decimal.New(200, -4)

type demoLigne struct {
	nom       string
	categorie enums.CategorieProduit
	prix      int64
	quantite  int64
}

type demoRec struct {
	code      string
	pdvCode   string
	lignes    []demoLigne
	methode   enums.MethodePaiement
	status    enums.RecouvrementStatus
	reference string
	notes     string
	created   string
	validated string
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	demo := flag.Bool("demo", false, "also create demo agents, PDVs and recouvrements")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.Seed.AdminPassword == "" {
		logg.Error(ctx, "CAF_SEED_ADMIN_PASSWORD is required", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	gdb := dbClient.DB().WithContext(ctx)

	if err := ensureSettings(gdb); err != nil {
		logg.Error(ctx, "failed to seed settings", err)
		os.Exit(1)
	}

	if err := ensureUser(gdb, cfg, cfg.Seed.AdminNom, cfg.Seed.AdminTelephone, cfg.Seed.AdminPassword, enums.UserRoleAdmin, "", true); err != nil {
		logg.Error(ctx, "failed to seed admin", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "telephone", cfg.Seed.AdminTelephone), "bootstrap admin ready")

	if *demo {
		if err := seedDemo(gdb, cfg); err != nil {
			logg.Error(ctx, "failed to seed demo data", err)
			os.Exit(1)
		}
		logg.Info(ctx, "demo data ready")
	}

	logg.Info(ctx, "seeding complete")
}

func ensureSettings(gdb *gorm.DB) error {
	var existing models.Settings
	err := gdb.Where("id = ?", models.SettingsID).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return gdb.Create(&models.Settings{
		ID:             models.SettingsID,
		TauxCommission: decimal.New(200, -2),
		UpdatedAt:      time.Now().UTC(),
	}).Error
}

func ensureUser(gdb *gorm.DB, cfg *config.Config, nom, telephone, password string, role enums.UserRole, zone string, active bool) error {
	var count int64
	if err := gdb.Model(&models.User{}).Where("telephone = ?", telephone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		return err
	}

	user := models.User{
		ID:           uuid.New(),
		Nom:          nom,
		Telephone:    telephone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	if zone != "" {
		user.Zone = &zone
	}
	return gdb.Create(&user).Error
}

func seedDemo(gdb *gorm.DB, cfg *config.Config) error {
	agents := []struct {
		nom       string
		telephone string
		zone      string
		active    bool
	}{
		{"Kone Mariame", "0700000010", "Cocody", true},
		{"Toure Ibrahim", "0700000011", "Yopougon", true},
		{"Diallo Fatou", "0700000012", "Plateau", true},
		{"Bamba Aissatou", "0700000014", "Abobo", false},
	}
	for _, a := range agents {
		if err := ensureUser(gdb, cfg, a.nom, a.telephone, "agent123", enums.UserRoleAgent, a.zone, a.active); err != nil {
			return err
		}
	}

	agentIDs := map[string]uuid.UUID{}
	for _, a := range agents {
		var u models.User
		if err := gdb.Where("telephone = ?", a.telephone).First(&u).Error; err != nil {
			return err
		}
		agentIDs[a.telephone] = u.ID
	}

	pdvs := []struct {
		code      string
		nom       string
		adresse   string
		commune   string
		propNom   string
		propTel   string
		status    enums.PDVStatus
		agentTel  string
	}{
		{"CAF-100001", "Boutique Chez Tanti Marie", "Rue des Jardins, Cocody Angre", "Cocody", "Yao Marie-Claire", "0505000001", enums.PDVStatusActif, "0700000010"},
		{"CAF-100002", "Phone City Electronics", "Boulevard Latrille, Cocody 2 Plateaux", "Cocody", "Aka Jean-Philippe", "0505000002", enums.PDVStatusActif, "0700000010"},
		{"CAF-100003", "Kiosque Mobile Plus", "Carrefour Palmeraie, Cocody Riviera", "Cocody", "Dje Brigitte", "0505000003", enums.PDVStatusEnAttente, "0700000010"},
		{"CAF-100004", "ETS Diallo & Fils", "Rue du Marche, Yopougon Selmer", "Yopougon", "Diallo Moussa", "0505000004", enums.PDVStatusActif, "0700000011"},
		{"CAF-100007", "Multi-Services Plateau", "Avenue Chardy, Plateau", "Plateau", "Boni Christophe", "0505000007", enums.PDVStatusActif, "0700000012"},
		{"CAF-100013", "Transfert Rapide Abobo", "Abobo Baoule, Face Mairie", "Abobo", "Cisse Mamadou", "0505000013", enums.PDVStatusInactif, "0700000014"},
	}
	pdvIDs := map[string]struct {
		id      uuid.UUID
		agentID uuid.UUID
	}{}
	for _, p := range pdvs {
		var count int64
		if err := gdb.Model(&models.PointDeVente{}).Where("code = ?", p.code).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			adresse := p.adresse
			propTel := p.propTel
			rec := models.PointDeVente{
				ID:                    uuid.New(),
				Code:                  p.code,
				Nom:                   p.nom,
				Adresse:               &adresse,
				Ville:                 "Abidjan",
				Commune:               p.commune,
				ProprietaireNom:       p.propNom,
				ProprietaireTelephone: &propTel,
				Status:                p.status,
				AgentID:               agentIDs[p.agentTel],
			}
			if err := gdb.Create(&rec).Error; err != nil {
				return err
			}
		}
		var stored models.PointDeVente
		if err := gdb.Where("code = ?", p.code).First(&stored).Error; err != nil {
			return err
		}
		pdvIDs[p.code] = struct {
			id      uuid.UUID
			agentID uuid.UUID
		}{stored.ID, stored.AgentID}
	}

	recs := []demoRec{
		{
			code: "REC-D00001", pdvCode: "CAF-100001",
			lignes: []demoLigne{
				{"Eau minerale 1.5L", enums.CategorieProduitBoissons, 500, 20},
				{"Coca-Cola 33cl", enums.CategorieProduitBoissons, 300, 30},
			},
			methode: enums.MethodePaiementMTNMomo, status: enums.RecouvrementStatusValide,
			reference: "MTN-TXN-90001", notes: "Livraison boissons reguliere",
			created: "2026-01-19", validated: "2026-01-19",
		},
		{
			code: "REC-D00002", pdvCode: "CAF-100001",
			lignes: []demoLigne{
				{"Riz parfume 5kg", enums.CategorieProduitAlimentation, 3500, 10},
				{"Huile de palme 1L", enums.CategorieProduitAlimentation, 1200, 15},
			},
			methode: enums.MethodePaiementOrangeMoney, status: enums.RecouvrementStatusValide,
			reference: "OM-TXN-80001",
			created:   "2026-01-21", validated: "2026-01-21",
		},
		{
			code: "REC-D00003", pdvCode: "CAF-100002",
			lignes: []demoLigne{
				{"Ecouteurs Bluetooth", enums.CategorieProduitElectronique, 5000, 20},
				{"Chargeur telephone universel", enums.CategorieProduitElectronique, 2000, 25},
			},
			methode: enums.MethodePaiementMTNMomo, status: enums.RecouvrementStatusValide,
			reference: "MTN-TXN-90002",
			created:   "2026-01-26", validated: "2026-01-27",
		},
		{
			code: "REC-D00004", pdvCode: "CAF-100001",
			lignes: []demoLigne{
				{"Biere Flag 65cl", enums.CategorieProduitBoissons, 700, 24},
			},
			methode: enums.MethodePaiementEspeces, status: enums.RecouvrementStatusEnAttente,
			notes:   "Casier de bieres",
			created: "2026-02-14",
		},
		{
			code: "REC-D00005", pdvCode: "CAF-100004",
			lignes: []demoLigne{
				{"Tomates fraiches 1kg", enums.CategorieProduitAlimentation, 800, 25},
				{"Oignons 1kg", enums.CategorieProduitAlimentation, 600, 20},
				{"Piment frais 1kg", enums.CategorieProduitAlimentation, 1000, 10},
			},
			methode: enums.MethodePaiementOrangeMoney, status: enums.RecouvrementStatusValide,
			reference: "OM-TXN-80002",
			created:   "2026-01-20", validated: "2026-01-20",
		},
		{
			code: "REC-D00006", pdvCode: "CAF-100004",
			lignes: []demoLigne{
				{"Chaussures sport homme", enums.CategorieProduitHabillement, 8000, 10},
			},
			methode: enums.MethodePaiementMTNMomo, status: enums.RecouvrementStatusRejete,
			reference: "MTN-TXN-90005", notes: "Transaction echouee - solde insuffisant",
			created: "2026-02-01",
		},
		{
			code: "REC-D00007", pdvCode: "CAF-100007",
			lignes: []demoLigne{
				{"Lait concentre sucre", enums.CategorieProduitAlimentation, 600, 100},
				{"Sucre en morceaux 1kg", enums.CategorieProduitAlimentation, 800, 50},
				{"The Lipton boite 100", enums.CategorieProduitAlimentation, 2500, 20},
			},
			methode: enums.MethodePaiementOrangeMoney, status: enums.RecouvrementStatusValide,
			reference: "OM-TXN-80005", notes: "Approvisionnement epicerie Plateau",
			created: "2026-01-19", validated: "2026-01-19",
		},
		{
			code: "REC-D00008", pdvCode: "CAF-100007",
			lignes: []demoLigne{
				{"Savon noir artisanal", enums.CategorieProduitAutre, 800, 10},
			},
			methode: enums.MethodePaiementEspeces, status: enums.RecouvrementStatusValide,
			notes:   "Produits artisanaux",
			created: "2026-02-12", validated: "2026-02-12",
		},
	}

	for _, r := range recs {
		var count int64
		if err := gdb.Model(&models.Recouvrement{}).Where("code = ?", r.code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		pdvRef := pdvIDs[r.pdvCode]
		recID := uuid.New()

		var montant int64
		lignes := make([]models.LigneRecouvrement, 0, len(r.lignes))
		for _, l := range r.lignes {
			sousTotal := l.prix * l.quantite
			montant += sousTotal
			lignes = append(lignes, models.LigneRecouvrement{
				ID:             uuid.New(),
				RecouvrementID: recID,
				NomProduit:     l.nom,
				Categorie:      l.categorie,
				PrixUnitaire:   l.prix,
				Quantite:       l.quantite,
				SousTotal:      sousTotal,
			})
		}
		commission := decimal.NewFromInt(montant).Mul(demoRate).Round(0).IntPart()

		created, err := time.Parse("2006-01-02", r.created)
		if err != nil {
			return err
		}
		rec := models.Recouvrement{
			ID:              recID,
			Code:            r.code,
			PointDeVenteID:  pdvRef.id,
			AgentID:         pdvRef.agentID,
			Montant:         montant,
			TauxCommission:  demoRate,
			Commission:      commission,
			MethodePaiement: r.methode,
			Status:          r.status,
			Lignes:          lignes,
			CreatedAt:       created,
			UpdatedAt:       created,
		}
		if r.reference != "" {
			ref := r.reference
			rec.Reference = &ref
		}
		if r.notes != "" {
			notes := r.notes
			rec.Notes = &notes
		}
		if r.validated != "" {
			validated, err := time.Parse("2006-01-02", r.validated)
			if err != nil {
				return err
			}
			rec.ValidatedAt = &validated
		}

		if err := gdb.Create(&rec).Error; err != nil {
			return err
		}
	}

	return nil
}
